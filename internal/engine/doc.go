// Package engine runs classification over a directory with a pool of
// persistent workers.
//
// A run proceeds in phases. Enumeration walks the directory up front and
// produces a sorted list of image files, so the total is known before the
// first classification and a relocation target inside the scanned tree is
// excluded from its own input. The worker pool then starts: each worker
// builds its own classifier, which pins the expensive OCR engine load to
// worker startup instead of paying it per image. An initialization
// barrier waits for every worker to report before any task is dispatched;
// partial failures degrade the pool with a warning, and a run only aborts
// when no worker at all came up.
//
// Tasks and results flow through bounded channels. A single collector
// goroutine owns the statistics and the relocation of classified
// screenshots, which serializes all file moves without locking in the
// workers. Cancellation stops dispatch and new relocations but the
// collector keeps draining until the last worker exits, so every result
// produced is also counted.
package engine
