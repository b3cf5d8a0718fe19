// Package progress renders load progress for interactive runs.
package progress

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Tracker tracks rows loaded across batches. A nil *Tracker is valid
// and does nothing, so non-interactive callers can skip the bar
// without guarding every call site.
type Tracker struct {
	bar       *progressbar.ProgressBar
	current   atomic.Int64
	startTime time.Time
}

// New creates a tracker for a load of total rows.
func New(total int64) *Tracker {
	return &Tracker{
		startTime: time.Now(),
		bar: progressbar.NewOptions64(
			total,
			progressbar.OptionSetDescription("Loading"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("rows"),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionFullWidth(),
			progressbar.OptionSetRenderBlankState(true),
		),
	}
}

// Add increments the row counter.
func (t *Tracker) Add(n int64) {
	if t == nil {
		return
	}
	t.current.Add(n)
	t.bar.Add64(n)
}

// Current returns the rows counted so far.
func (t *Tracker) Current() int64 {
	if t == nil {
		return 0
	}
	return t.current.Load()
}

// Finish completes the bar and prints a throughput summary.
func (t *Tracker) Finish() {
	if t == nil {
		return
	}
	t.bar.Finish()

	elapsed := time.Since(t.startTime)
	rowsPerSec := float64(t.current.Load()) / elapsed.Seconds()

	fmt.Println()
	fmt.Printf("Loaded %d rows in %s (%.0f rows/sec)\n",
		t.current.Load(), elapsed.Round(time.Second), rowsPerSec)
}
