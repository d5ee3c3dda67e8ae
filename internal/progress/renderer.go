package progress

import (
	"context"
	"fmt"
	"io"
	"time"
)

// RefreshInterval is how often the renderer redraws its bars.
const RefreshInterval = 100 * time.Millisecond

// Renderer redraws a fixed set of bars in place on a terminal.
type Renderer struct {
	bars   []*Bar
	output io.Writer
	drawn  bool
}

// NewRenderer creates a renderer writing to output.
func NewRenderer(bars []*Bar, output io.Writer) *Renderer {
	return &Renderer{
		bars:   bars,
		output: output,
	}
}

// Render redraws the bars until ctx is done and then clears them.
func (r *Renderer) Render(ctx context.Context) {
	ticker := time.NewTicker(RefreshInterval)
	defer ticker.Stop()

	for {
		r.draw()

		select {
		case <-ctx.Done():
			r.clear()
			return
		case <-ticker.C:
		}
	}
}

func (r *Renderer) draw() {
	r.clear()
	for _, bar := range r.bars {
		_, _ = fmt.Fprintln(r.output, bar.String())
	}
	r.drawn = true
}

// clear moves the cursor up over the previously drawn lines and erases them.
func (r *Renderer) clear() {
	if !r.drawn {
		return
	}
	for range r.bars {
		_, _ = fmt.Fprint(r.output, "\033[1A\033[K")
	}
	r.drawn = false
}
