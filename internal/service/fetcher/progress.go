package fetcher

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dustin/go-humanize"
)

const (
	// progressSteps is how many lines a transfer of known size prints.
	progressSteps = 10
	// unknownSizeStep is the reporting interval when the size is unknown.
	unknownSizeStep = 1 << 20
)

// ProgressReporter receives download progress events.
// Implementations must be safe for concurrent use: several transfers share one reporter.
type ProgressReporter interface {
	OnStart(name string, total int64)
	OnProgress(name string, done, total int64)
	OnComplete(name string, done int64)
}

// DiscardProgressReporter drops every event.
type DiscardProgressReporter struct{}

// OnStart implements ProgressReporter.
func (DiscardProgressReporter) OnStart(string, int64) {}

// OnProgress implements ProgressReporter.
func (DiscardProgressReporter) OnProgress(string, int64, int64) {}

// OnComplete implements ProgressReporter.
func (DiscardProgressReporter) OnComplete(string, int64) {}

// ConsoleProgressReporter prints one line per progress step.
// Lines from concurrent transfers interleave but never tear.
type ConsoleProgressReporter struct {
	mu     sync.Mutex
	writer io.Writer
	steps  map[string]int64
}

// NewConsoleProgressReporter constructs a reporter writing to w (stdout if nil).
func NewConsoleProgressReporter(w io.Writer) *ConsoleProgressReporter {
	if w == nil {
		w = os.Stdout
	}

	return &ConsoleProgressReporter{
		writer: w,
		steps:  make(map[string]int64),
	}
}

// OnStart implements ProgressReporter.
func (c *ConsoleProgressReporter) OnStart(name string, total int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.steps[name] = 0

	if total < 0 {
		c.printf("%s: downloading, size unknown\n", name)
		return
	}

	c.printf("%s: downloading %s\n", name, humanize.Bytes(uint64(total)))
}

// OnProgress implements ProgressReporter.
func (c *ConsoleProgressReporter) OnProgress(name string, done, total int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if total <= 0 {
		step := done / unknownSizeStep
		if step > c.steps[name] {
			c.steps[name] = step
			c.printf("%s: %s\n", name, humanize.Bytes(uint64(done)))
		}

		return
	}

	step := min(done*progressSteps/total, progressSteps)
	if step > c.steps[name] && step < progressSteps {
		c.steps[name] = step
		c.printf("%s: %s / %s (%d%%)\n",
			name, humanize.Bytes(uint64(done)), humanize.Bytes(uint64(total)), step*100/progressSteps)
	}
}

// OnComplete implements ProgressReporter.
func (c *ConsoleProgressReporter) OnComplete(name string, done int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.steps, name)
	c.printf("%s: done, %s\n", name, humanize.Bytes(uint64(done)))
}

func (c *ConsoleProgressReporter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.writer, format, args...)
}

// downloadProgress counts the bytes of a single transfer.
type downloadProgress struct {
	name     string
	done     int64
	total    int64
	reporter ProgressReporter
}

// newDownloadProgress announces the transfer and returns its counter.
// A negative total means the server did not send Content-Length.
func newDownloadProgress(name string, total int64, reporter ProgressReporter) *downloadProgress {
	reporter.OnStart(name, total)

	return &downloadProgress{
		name:     name,
		total:    total,
		reporter: reporter,
	}
}

func (p *downloadProgress) add(n int) {
	if n <= 0 {
		return
	}

	p.done += int64(n)
	p.reporter.OnProgress(p.name, p.done, p.total)
}

func (p *downloadProgress) finish() {
	p.reporter.OnComplete(p.name, p.done)
}
