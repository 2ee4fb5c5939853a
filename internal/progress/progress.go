// Package progress implements a terminal progress bar: one line per
// partition, redrawn under a short-lived mutex.
//
// A Reporter is safe to share across partition worker goroutines. Updates
// are throttled with golang.org/x/time/rate so the mutex is held only for
// a cheap string copy + terminal write, never across I/O.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	humanize "github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"golang.org/x/time/rate"
)

var barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
var labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

// Reporter draws one progress line per partition. A nil *Reporter is a
// valid no-op reporter (New returns a silent one when stdout is not a
// terminal); a zero-value Reporter is not, since it has no limiter or
// bars.
type Reporter struct {
	mu      sync.Mutex
	out     io.Writer
	bars    []string
	limiter *rate.Limiter
	silent  bool
}

// New returns a Reporter with one bar per partition. If out is not a
// terminal, the reporter silently drops all updates.
func New(out *os.File, numPartitions int) *Reporter {
	silent := out == nil || !isatty.IsTerminal(out.Fd())
	return &Reporter{
		out:     out,
		bars:    make([]string, numPartitions),
		limiter: rate.NewLimiter(rate.Every(80*time.Millisecond), 1),
		silent:  silent,
	}
}

// NewSilent returns a Reporter that never writes anything — used in
// tests and non-interactive contexts (e.g. a Build without WithProgress).
func NewSilent() *Reporter {
	return &Reporter{silent: true}
}

// Update redraws partition p's line as "done/total docs (bytes)". It is
// safe to call concurrently from every partition worker; only one
// goroutine at a time holds the mutex, and the rate limiter drops most
// calls before they reach it.
func (r *Reporter) Update(p, done, total int, bytesRead uint64) {
	if r == nil || r.silent {
		return
	}
	if !r.limiter.Allow() && done < total {
		return
	}

	line := fmt.Sprintf("%s %s",
		labelStyle.Render(fmt.Sprintf("partition %d:", p)),
		barStyle.Render(fmt.Sprintf("%d/%d docs (%s)", done, total, humanize.Bytes(bytesRead))),
	)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.bars[p] = line
	r.redrawLocked()
}

// Finish marks a partition done, independent of the rate limiter, so the
// final state is always visible even if the last Update was dropped.
func (r *Reporter) Finish(p, total int) {
	if r == nil || r.silent {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bars[p] = fmt.Sprintf("%s %s",
		labelStyle.Render(fmt.Sprintf("partition %d:", p)),
		barStyle.Render(fmt.Sprintf("%d/%d docs (done)", total, total)),
	)
	r.redrawLocked()
}

// redrawLocked rewrites every bar line. Caller must hold r.mu.
func (r *Reporter) redrawLocked() {
	if r.out == nil {
		return
	}
	// Move the cursor to the top of the bar block and repaint every line.
	fmt.Fprintf(r.out, "\033[%dA", len(r.bars))
	fmt.Fprintln(r.out, strings.Join(r.bars, "\n"))
}
