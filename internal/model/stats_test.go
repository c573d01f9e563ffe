package model

import (
	"sync"
	"testing"
	"time"
)

func TestRunStatisticsRecord(t *testing.T) {
	t.Parallel()

	t.Run("verdict counters partition the total", func(t *testing.T) {
		t.Parallel()

		stats := NewRunStatistics()
		stats.Record(ClassificationResult{Verdict: VerdictScreenshot})
		stats.Record(ClassificationResult{Verdict: VerdictScreenshot, RelocatedTo: "/out/a.png"})
		stats.Record(ClassificationResult{Verdict: VerdictRegular})
		stats.Record(ClassificationResult{Verdict: VerdictError})

		got := stats.Snapshot()
		if got.Total != 4 {
			t.Errorf("Total = %d, want 4", got.Total)
		}
		if got.Screenshots != 2 {
			t.Errorf("Screenshots = %d, want 2", got.Screenshots)
		}
		if got.Regular != 1 {
			t.Errorf("Regular = %d, want 1", got.Regular)
		}
		if got.Errors != 1 {
			t.Errorf("Errors = %d, want 1", got.Errors)
		}
		if got.Relocated != 1 {
			t.Errorf("Relocated = %d, want 1", got.Relocated)
		}
	})

	t.Run("method counters split screenshots by contributing method", func(t *testing.T) {
		t.Parallel()

		stats := NewRunStatistics()
		stats.Record(ClassificationResult{Verdict: VerdictScreenshot, Method: MethodHorizontal})
		stats.Record(ClassificationResult{Verdict: VerdictScreenshot, Method: MethodHorizontal})
		stats.Record(ClassificationResult{Verdict: VerdictScreenshot, Method: MethodOCR})
		stats.Record(ClassificationResult{Verdict: VerdictRegular, Method: MethodNone})

		got := stats.Snapshot()
		if got.ByHorizontal != 2 {
			t.Errorf("ByHorizontal = %d, want 2", got.ByHorizontal)
		}
		if got.ByOCR != 1 {
			t.Errorf("ByOCR = %d, want 1", got.ByOCR)
		}
	})

	t.Run("detect time accumulates across results", func(t *testing.T) {
		t.Parallel()

		stats := NewRunStatistics()
		stats.Record(ClassificationResult{Verdict: VerdictRegular, Elapsed: 100 * time.Millisecond})
		stats.Record(ClassificationResult{Verdict: VerdictRegular, Elapsed: 250 * time.Millisecond})

		if got := stats.Snapshot().DetectTime; got != 350*time.Millisecond {
			t.Errorf("DetectTime = %v, want 350ms", got)
		}
	})

	t.Run("relocation errors do not disturb verdict counts", func(t *testing.T) {
		t.Parallel()

		stats := NewRunStatistics()
		stats.Record(ClassificationResult{Verdict: VerdictScreenshot})
		stats.RecordRelocationError()

		got := stats.Snapshot()
		if got.Screenshots != 1 {
			t.Errorf("Screenshots = %d, want 1", got.Screenshots)
		}
		if got.RelocationErrors != 1 {
			t.Errorf("RelocationErrors = %d, want 1", got.RelocationErrors)
		}
		if sum := got.Screenshots + got.Regular + got.Errors; sum != got.Total {
			t.Errorf("verdict counters sum to %d, want Total %d", sum, got.Total)
		}
	})
}

func TestRunStatisticsConcurrentRecord(t *testing.T) {
	t.Parallel()

	const (
		goroutines = 8
		perWorker  = 100
	)

	stats := NewRunStatistics()

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				verdict := VerdictRegular
				if (n+j)%3 == 0 {
					verdict = VerdictScreenshot
				}
				stats.Record(ClassificationResult{Verdict: verdict})
			}
		}(i)
	}
	wg.Wait()

	got := stats.Snapshot()
	if want := goroutines * perWorker; got.Total != want {
		t.Errorf("Total = %d, want %d", got.Total, want)
	}
	if sum := got.Screenshots + got.Regular + got.Errors; sum != got.Total {
		t.Errorf("verdict counters sum to %d, want Total %d", sum, got.Total)
	}
}

func TestRunSummaryScreenshotRate(t *testing.T) {
	t.Parallel()

	t.Run("empty run has zero rate", func(t *testing.T) {
		t.Parallel()

		var s RunSummary
		if got := s.ScreenshotRate(); got != 0 {
			t.Errorf("ScreenshotRate() = %v, want 0", got)
		}
	})

	t.Run("rate is screenshots over total", func(t *testing.T) {
		t.Parallel()

		s := RunSummary{Total: 4, Screenshots: 1}
		if got := s.ScreenshotRate(); got != 0.25 {
			t.Errorf("ScreenshotRate() = %v, want 0.25", got)
		}
	})
}
