package progress

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Bar shows how far a worker is through its current batch along with the running totals.
type Bar struct {
	mu        sync.Mutex
	label     string
	width     int
	total     int
	current   int
	processed int
	failed    int
	step      string
	stepStart time.Time
	healthy   bool
}

// NewBar creates a bar of width characters labelled with the worker name.
func NewBar(label string, width int) *Bar {
	return &Bar{
		label:     label,
		width:     width,
		stepStart: time.Now(),
		healthy:   true,
	}
}

// StartBatch resets the bar for a batch of total jobs.
func (b *Bar) StartBatch(total int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.total = total
	b.current = 0
}

// SetStep updates the step description and restarts its timer.
func (b *Bar) SetStep(step string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.step != step {
		b.step = step
		b.stepStart = time.Now()
	}
}

// Record adds finished jobs to the batch and the running totals.
func (b *Bar) Record(processed, failed int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.processed += processed
	b.failed += failed
	b.current = min(b.current+processed+failed, b.total)
}

// SetHealthy marks whether the worker can reach its queue.
func (b *Bar) SetHealthy(healthy bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.healthy = healthy
}

// String renders the bar on a single line.
func (b *Bar) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	percent := 0.0
	if b.total > 0 {
		percent = float64(b.current) / float64(b.total)
	}

	filled := int(percent * float64(b.width))
	bar := strings.Repeat("=", filled) + strings.Repeat("-", b.width-filled)

	state := ""
	if !b.healthy {
		state = " [unhealthy]"
	}

	return fmt.Sprintf("%s [%s] %d/%d | %s (%s) | ok: %d failed: %d%s",
		b.label, bar, b.current, b.total,
		b.step, time.Since(b.stepStart).Round(time.Second),
		b.processed, b.failed, state)
}
