package progress

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Progress reports completion of discrete work units. The executor ticks it
// once per finished task; implementations must tolerate concurrent calls.
type Progress interface {
	// Add marks n more units done.
	Add(n int)
	// Finish completes the display.
	Finish()
}

// New returns a terminal progress bar over total units, or a silent display
// when disabled or when there is nothing to count.
func New(total int, label string, disabled bool) Progress {
	return newProgress(total, label, disabled, os.Stderr)
}

func newProgress(total int, label string, disabled bool, w io.Writer) Progress {
	if disabled || total <= 0 {
		return Noop{}
	}

	return &bar{b: progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(label),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)}
}

type bar struct {
	b *progressbar.ProgressBar
}

// Add marks n more units done.
func (p *bar) Add(n int) {
	_ = p.b.Add(n)
}

// Finish completes the display.
func (p *bar) Finish() {
	_ = p.b.Finish()
}

// Noop satisfies Progress without rendering anything.
type Noop struct{}

// Add implements Progress.
func (Noop) Add(int) {}

// Finish implements Progress.
func (Noop) Finish() {}
