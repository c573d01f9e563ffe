package relocate

import "fmt"

// maxConflictAttempts bounds the numeric-suffix search. A directory that
// already holds a thousand same-named screenshots is pathological; giving
// up with an error beats spinning on an unbounded loop.
const maxConflictAttempts = 1000

// ConflictExhaustedError reports that no free destination name was found
// within the attempt cap. It is per-file: the run continues and the file
// stays where it was.
type ConflictExhaustedError struct {
	// Source is the file that could not be relocated.
	Source string

	// Dir is the destination directory where every candidate name was taken.
	Dir string
}

// Error implements the error interface.
func (e *ConflictExhaustedError) Error() string {
	return fmt.Sprintf("no free name for %s in %s after %d attempts",
		e.Source, e.Dir, maxConflictAttempts)
}
