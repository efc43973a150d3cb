package search

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Progress observes a search run. Implementations must not affect results.
type Progress interface {
	Start(total int)
	Step(done int)
	Finish()
}

type noProgress struct{}

func (noProgress) Start(int) {}
func (noProgress) Step(int)  {}
func (noProgress) Finish()   {}

// NewProgress returns a progress line on f when enabled and f is a terminal.
func NewProgress(f *os.File, enabled bool) Progress {
	if !enabled || f == nil {
		return noProgress{}
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return noProgress{}
	}
	return &lineProgress{w: f}
}

// lineProgress redraws a single status line.
type lineProgress struct {
	w     io.Writer
	total int
	last  int
}

func (p *lineProgress) Start(total int) {
	p.total = total
	p.last = -1
	p.Step(0)
}

func (p *lineProgress) Step(done int) {
	if p.total == 0 {
		return
	}
	// Redraw at most once per percent.
	pct := done * 100 / p.total
	if pct == p.last {
		return
	}
	p.last = pct
	fmt.Fprintf(p.w, "\rSearching files %d/%d (%d%%)", done, p.total, pct)
}

func (p *lineProgress) Finish() {
	if p.total == 0 {
		return
	}
	fmt.Fprint(p.w, "\r\033[K")
}
