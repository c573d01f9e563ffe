package main

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/ssdetect/ssdetect/internal/history"
	"github.com/ssdetect/ssdetect/internal/model"
)

// TestNewHistoryCmd tests the history command creation.
func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "history" {
			t.Errorf("expected use 'history', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has limit flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("limit")
		if flag == nil {
			t.Fatal("expected limit flag")
		}
		if flag.Shorthand != "n" {
			t.Errorf("expected shorthand 'n', got %q", flag.Shorthand)
		}
		if flag.DefValue != "20" {
			t.Errorf("expected default '20', got %q", flag.DefValue)
		}
	})

	t.Run("has dir flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("dir")
		if flag == nil {
			t.Fatal("expected dir flag")
		}
		if flag.Shorthand != "d" {
			t.Errorf("expected shorthand 'd', got %q", flag.Shorthand)
		}
	})

	t.Run("has json flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("json")
		if flag == nil {
			t.Fatal("expected json flag")
		}
		if flag.Shorthand != "j" {
			t.Errorf("expected shorthand 'j', got %q", flag.Shorthand)
		}
	})

	t.Run("does not have db-dir flag (uses XDG)", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("db-dir") != nil {
			t.Error("db-dir flag should not exist (always uses XDG data directory)")
		}
	})
}

// saveTestRuns stores n runs for rootDir in the database.
func saveTestRuns(t *testing.T, db *history.DB, rootDir string, n int) {
	t.Helper()

	ctx := context.Background()
	for i := 0; i < n; i++ {
		sum := &model.RunSummary{
			RootDir:     rootDir,
			Mode:        "both",
			Enumerated:  10,
			Total:       10,
			Screenshots: i + 1,
			Regular:     10 - (i + 1),
		}
		if _, err := db.SaveRun(ctx, sum); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
	}
}

// captureStdout runs fn with os.Stdout redirected to a pipe and returns
// what fn printed.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, pipeErr := os.Pipe()
	if pipeErr != nil {
		t.Fatalf("failed to create pipe: %v", pipeErr)
	}
	os.Stdout = w

	err := fn()

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	r.Close()

	return buf.String(), err
}

func TestListRunHistoryEmpty(t *testing.T) {
	// Note: Not using t.Parallel() because this test captures os.Stdout

	tmpDir := t.TempDir()
	db, err := history.Open(tmpDir, history.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	output, err := captureStdout(t, func() error {
		return listRunHistory(ctx, db, "", defaultHistoryLimit, false)
	})
	if err != nil {
		t.Fatalf("listRunHistory() error = %v", err)
	}

	if !strings.Contains(output, "No recorded runs found.") {
		t.Errorf("expected 'No recorded runs found.' message, got: %s", output)
	}
	if !strings.Contains(output, "ssdetect classify") {
		t.Error("expected classify hint in output")
	}
}

func TestListRunHistoryWithData(t *testing.T) {
	// Note: Not using t.Parallel() because this test captures os.Stdout

	tmpDir := t.TempDir()
	db, err := history.Open(tmpDir, history.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	saveTestRuns(t, db, "/tmp/photos", 3)

	ctx := context.Background()

	output, err := captureStdout(t, func() error {
		return listRunHistory(ctx, db, "", defaultHistoryLimit, false)
	})
	if err != nil {
		t.Fatalf("listRunHistory() error = %v", err)
	}

	if !strings.Contains(output, "Run history (3 of 3 runs):") {
		t.Errorf("expected run count header, got: %s", output)
	}
	if !strings.Contains(output, "/tmp/photos") {
		t.Error("expected root directory in output")
	}
	if !strings.Contains(output, "Shots/Total") {
		t.Error("expected column header in output")
	}
	if !strings.Contains(output, "Totals: 3 runs, 30 images classified, 6 screenshots found.") {
		t.Errorf("expected totals line, got: %s", output)
	}
}

func TestListRunHistoryLimit(t *testing.T) {
	// Note: Not using t.Parallel() because this test captures os.Stdout

	tmpDir := t.TempDir()
	db, err := history.Open(tmpDir, history.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	saveTestRuns(t, db, "/tmp/photos", 5)

	ctx := context.Background()

	output, err := captureStdout(t, func() error {
		return listRunHistory(ctx, db, "", 2, false)
	})
	if err != nil {
		t.Fatalf("listRunHistory() error = %v", err)
	}

	// The listing is limited; the totals still cover every stored run.
	if !strings.Contains(output, "Run history (2 of 5 runs):") {
		t.Errorf("expected limited run count header, got: %s", output)
	}
}

func TestListRunHistoryDirFilter(t *testing.T) {
	// Note: Not using t.Parallel() because this test captures os.Stdout

	tmpDir := t.TempDir()
	db, err := history.Open(tmpDir, history.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	saveTestRuns(t, db, "/tmp/photos", 2)
	saveTestRuns(t, db, "/tmp/wallpapers", 1)

	ctx := context.Background()

	output, err := captureStdout(t, func() error {
		return listRunHistory(ctx, db, "/tmp/wallpapers", defaultHistoryLimit, false)
	})
	if err != nil {
		t.Fatalf("listRunHistory() error = %v", err)
	}

	if !strings.Contains(output, "/tmp/wallpapers") {
		t.Error("expected filtered directory in output")
	}
	if strings.Contains(output, "/tmp/photos") {
		t.Error("expected other directories to be filtered out")
	}

	output, err = captureStdout(t, func() error {
		return listRunHistory(ctx, db, "/tmp/none", defaultHistoryLimit, false)
	})
	if err != nil {
		t.Fatalf("listRunHistory() error = %v", err)
	}
	if !strings.Contains(output, "No recorded runs for /tmp/none") {
		t.Errorf("expected per-directory empty message, got: %s", output)
	}
}

func TestListRunHistoryJSON(t *testing.T) {
	// Note: Not using t.Parallel() because this test captures os.Stdout

	tmpDir := t.TempDir()
	db, err := history.Open(tmpDir, history.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	saveTestRuns(t, db, "/tmp/photos", 1)

	ctx := context.Background()

	output, err := captureStdout(t, func() error {
		return listRunHistory(ctx, db, "", defaultHistoryLimit, true)
	})
	if err != nil {
		t.Fatalf("listRunHistory() error = %v", err)
	}

	if !strings.Contains(output, `"root_dir": "/tmp/photos"`) {
		t.Errorf("expected JSON with root_dir field, got: %s", output)
	}
}
