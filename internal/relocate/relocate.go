package relocate

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ssdetect/ssdetect/internal/model"
)

// sidecarExt is the recognized sidecar extension, compared case-insensitively.
const sidecarExt = ".xmp"

// Plan records one completed relocation.
type Plan struct {
	// Source and Destination are the image's original and final paths.
	Source      string
	Destination string

	// Sidecars lists the sidecar files that followed the image, including
	// any that failed.
	Sidecars []SidecarMove
}

// SidecarMove is the outcome of relocating one sidecar file.
type SidecarMove struct {
	// Source and Destination are the sidecar's original and intended paths.
	Source      string
	Destination string

	// Err is non-nil when this sidecar could not be relocated. The image
	// itself has already been relocated and stays relocated.
	Err error
}

// Relocator moves or copies screenshots into a target directory.
// It is safe for concurrent use: the existence check and the file action
// are serialized per destination directory, so two goroutines relocating
// same-named files can never choose the same suffixed destination.
type Relocator struct {
	mode   model.RelocationMode
	target string
	logger *slog.Logger

	// mu guards locks; each entry serializes one destination directory.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a Relocator that applies mode with target as the destination
// directory.
func New(mode model.RelocationMode, target string, logger *slog.Logger) *Relocator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Relocator{
		mode:   mode,
		target: target,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

// Relocate moves or copies the image at path into the target directory and
// brings its XMP sidecars along with the same suffix decision. It returns
// the executed plan, or nil when the relocator's mode is none.
func (r *Relocator) Relocate(path string) (*Plan, error) {
	if r.mode == model.RelocationNone {
		return nil, nil
	}

	// Serialize against every other relocation into this directory.
	lock := r.dirLock(r.target)
	lock.Lock()
	defer lock.Unlock()

	if err := os.MkdirAll(r.target, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create target directory: %w", err)
	}

	dest, err := r.resolveDestination(path)
	if err != nil {
		return nil, err
	}

	// Locate sidecars before touching the image: a move removes the
	// source, and the sidecar scan keys off the source's directory.
	sidecars, err := findSidecars(path)
	if err != nil {
		// An unreadable source directory only costs the sidecar scan.
		r.logger.Warn("failed to scan for sidecars", "source", path, "error", err)
	}

	if err := r.apply(path, dest); err != nil {
		return nil, err
	}

	plan := &Plan{Source: path, Destination: dest, Sidecars: make([]SidecarMove, 0, len(sidecars))}

	destStem := strings.TrimSuffix(filepath.Base(dest), filepath.Ext(dest))
	for _, sidecar := range sidecars {
		move := SidecarMove{
			Source: sidecar,
			// The sidecar keeps its own extension (with its original
			// case) but follows the image's resolved stem, suffix
			// number included.
			Destination: filepath.Join(r.target, destStem+filepath.Ext(sidecar)),
		}
		if err := r.apply(sidecar, move.Destination); err != nil {
			move.Err = err
			r.logger.Warn("sidecar relocation failed",
				"sidecar", sidecar, "destination", move.Destination, "error", err)
		}
		plan.Sidecars = append(plan.Sidecars, move)
	}

	return plan, nil
}

// dirLock returns the mutex serializing relocations into dir, creating it
// on first use.
func (r *Relocator) dirLock(dir string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.locks[dir]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[dir] = lock
	}
	return lock
}

// resolveDestination picks an unused destination path for the image,
// appending _1, _2, ... before the extension until a free name is found.
// The caller holds the directory lock, so the name stays free until the
// action is applied.
func (r *Relocator) resolveDestination(path string) (string, error) {
	base := filepath.Base(path)
	dest := filepath.Join(r.target, base)
	if !exists(dest) {
		return dest, nil
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for n := 1; n <= maxConflictAttempts; n++ {
		dest = filepath.Join(r.target, fmt.Sprintf("%s_%d%s", stem, n, ext))
		if !exists(dest) {
			return dest, nil
		}
	}

	return "", &ConflictExhaustedError{Source: path, Dir: r.target}
}

// apply performs the relocator's action on one file.
func (r *Relocator) apply(src, dest string) error {
	if r.mode == model.RelocationCopy {
		return copyFile(src, dest)
	}
	return moveFile(src, dest)
}

// findSidecars returns the XMP sidecars next to path: files in the same
// directory whose stem matches the image's stem exactly and whose
// extension is .xmp in any case.
func findSidecars(path string) ([]string, error) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var sidecars []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if !strings.EqualFold(ext, sidecarExt) {
			continue
		}
		if strings.TrimSuffix(name, ext) == stem {
			sidecars = append(sidecars, filepath.Join(dir, name))
		}
	}
	return sidecars, nil
}

// exists reports whether a name is taken at the destination. Lstat is
// deliberate: a broken symlink still occupies the name.
func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// moveFile renames src to dest, falling back to copy-and-remove when the
// rename fails, typically because the destination sits on another device.
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}

	if err := copyFile(src, dest); err != nil {
		return err
	}
	return os.Remove(src)
}

// copyFile copies src to dest, preserving the file mode and modification
// time the way a metadata-preserving copy does.
func copyFile(src, dest string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src) //nolint:gosec // Paths come from the enumeration walk
	if err != nil {
		return err
	}
	defer in.Close() //nolint:errcheck // Read-only file

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm()) //nolint:gosec // Destination resolved under the directory lock
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	return os.Chtimes(dest, time.Now(), info.ModTime())
}
