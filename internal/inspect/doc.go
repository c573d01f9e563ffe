// Package inspect produces detailed diagnostic reports for single images.
//
// Where a classification run reports only verdicts, inspection exposes
// the intermediate signals behind them: the qualifying rows of the
// horizontal heuristic, the full OCR metric set, and the image's EXIF
// tags. Camera EXIF is a useful side channel when tuning thresholds,
// since genuine photographs usually carry make and model tags while
// screenshots almost never do.
package inspect
