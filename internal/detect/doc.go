// Package detect implements the two screenshot detection methods and the
// per-worker Classifier that applies them.
//
// Detection methods:
//   - Horizontal edge heuristic: screenshots contain long uninterrupted
//     horizontal lines (window chrome, toolbars, dividers) that photographs
//     almost never produce. The image is convolved with a horizontal edge
//     kernel and rows dominated by strong edges are counted.
//   - OCR text heuristic: screenshots contain dense, machine-rendered text
//     that recognizes with high confidence. Recognized regions are scored
//     against character, confidence, and density rules.
//
// In combined mode the horizontal method runs first and a positive hit
// skips OCR entirely. Horizontal detection costs milliseconds while OCR
// costs seconds, and a true screenshot rarely escapes the horizontal
// method, so the short-circuit saves the expensive path in the common case.
//
// The OCR engine sits behind the Engine interface. The production
// implementation is TesseractEngine; tests substitute a stub. Engine
// construction loads the recognition model and is expensive, which is why
// one Classifier is created per worker and reused for every image the
// worker processes.
package detect
