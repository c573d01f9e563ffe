package main

import (
	"testing"

	"github.com/ssdetect/ssdetect/internal/config"
	"github.com/ssdetect/ssdetect/internal/model"
)

// TestNewInspectCmd tests the inspect command creation.
func TestNewInspectCmd(t *testing.T) {
	t.Parallel()

	cmd := NewInspectCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "inspect <image-file>" {
			t.Errorf("expected use 'inspect <image-file>', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has long description", func(t *testing.T) {
		t.Parallel()
		if cmd.Long == "" {
			t.Error("expected non-empty long description")
		}
	})

	t.Run("requires exactly one argument", func(t *testing.T) {
		t.Parallel()
		if cmd.Args == nil {
			t.Error("expected Args validator")
		}
	})

	t.Run("has mode flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("mode")
		if flag == nil {
			t.Fatal("expected mode flag")
		}
		if flag.Shorthand != "m" {
			t.Errorf("expected shorthand 'm', got %q", flag.Shorthand)
		}
	})

	t.Run("has ocr tuning flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"ocr-chars", "ocr-quality", "ocr-resize"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})

	t.Run("has no-gpu flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("no-gpu") == nil {
			t.Error("expected no-gpu flag")
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
}

// TestBuildInspectParams tests detection parameter resolution from flags.
func TestBuildInspectParams(t *testing.T) {
	t.Run("builds params with default values", func(t *testing.T) {
		cmd := NewInspectCmd()
		params, err := buildInspectParams(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if params.Mode != model.ModeCombined {
			t.Errorf("expected Mode %v, got %v", model.ModeCombined, params.Mode)
		}
		if params.OCRMinChars != config.DefaultOCRMinChars {
			t.Errorf("expected OCRMinChars %d, got %d", config.DefaultOCRMinChars, params.OCRMinChars)
		}
		if params.OCRMinConfidence != config.DefaultOCRMinConfidence {
			t.Errorf("expected OCRMinConfidence %f, got %f", config.DefaultOCRMinConfidence, params.OCRMinConfidence)
		}
		if !params.GPUEnabled {
			t.Error("expected GPUEnabled to be true")
		}
		if !params.ExtraHeuristics {
			t.Error("expected ExtraHeuristics to be true")
		}
	})

	t.Run("builds params with horizontal mode", func(t *testing.T) {
		cmd := NewInspectCmd()
		_ = cmd.Flags().Set("mode", "horizontal")
		params, err := buildInspectParams(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if params.Mode != model.ModeHorizontal {
			t.Errorf("expected Mode %v, got %v", model.ModeHorizontal, params.Mode)
		}
	})

	t.Run("returns error for invalid mode", func(t *testing.T) {
		cmd := NewInspectCmd()
		_ = cmd.Flags().Set("mode", "telepathy")
		if _, err := buildInspectParams(cmd); err == nil {
			t.Error("expected error for invalid mode")
		}
	})

	t.Run("disables gpu with no-gpu flag", func(t *testing.T) {
		cmd := NewInspectCmd()
		_ = cmd.Flags().Set("no-gpu", "true")
		params, err := buildInspectParams(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if params.GPUEnabled {
			t.Error("expected GPUEnabled to be false")
		}
	})

	t.Run("builds params with custom thresholds", func(t *testing.T) {
		cmd := NewInspectCmd()
		_ = cmd.Flags().Set("ocr-chars", "5")
		_ = cmd.Flags().Set("ocr-quality", "0.4")
		_ = cmd.Flags().Set("ocr-resize", "0.25")
		params, err := buildInspectParams(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if params.OCRMinChars != 5 {
			t.Errorf("expected OCRMinChars 5, got %d", params.OCRMinChars)
		}
		if params.OCRMinConfidence != 0.4 {
			t.Errorf("expected OCRMinConfidence 0.4, got %f", params.OCRMinConfidence)
		}
		if params.OCRResizeFactor != 0.25 {
			t.Errorf("expected OCRResizeFactor 0.25, got %f", params.OCRResizeFactor)
		}
	})
}

// TestFormatRows tests the row position formatting.
func TestFormatRows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rows []int
		want string
	}{
		{
			name: "empty rows",
			rows: nil,
			want: "",
		},
		{
			name: "few rows listed in full",
			rows: []int{10, 20, 30},
			want: "y=10, y=20, y=30",
		},
		{
			name: "long list elided past eight",
			rows: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			want: "y=1, y=2, y=3, y=4, y=5, y=6, y=7, y=8, ... (2 more)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := formatRows(tt.rows)
			if got != tt.want {
				t.Errorf("formatRows(%v) = %q, want %q", tt.rows, got, tt.want)
			}
		})
	}
}
