package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var failedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)

// Progress prints one numbered line per finished item of a known-length
// sequence.
type Progress struct {
	mu    sync.Mutex
	out   io.Writer
	total int
	done  int
}

// NewProgress creates a progress printer for total items.
func NewProgress(out io.Writer, total int) *Progress {
	return &Progress{out: out, total: total}
}

// Step prints "[i/n] name outcome" for the next finished item.
func (p *Progress) Step(name, outcome string, failed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	if failed {
		outcome = failedStyle.Render(outcome)
	}
	_, _ = fmt.Fprintf(p.out, "[%d/%d] %s %s\n", p.done, p.total, name, outcome)
}

// Remaining returns how many items have not been reported.
func (p *Progress) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total - p.done
}

// Log prints an informational line between steps.
func (p *Progress) Log(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}
