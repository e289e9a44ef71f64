package worker

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Progress tracks and displays tile generation progress.
type Progress struct {
	startTime time.Time
	output    io.Writer
	stats     Stats
	mu        sync.RWMutex
	enabled   bool
}

// NewProgress creates a new progress tracker.
func NewProgress(total int, enabled bool) *Progress {
	return &Progress{
		stats:     Stats{Total: total},
		startTime: time.Now(),
		output:    os.Stderr,
		enabled:   enabled,
	}
}

// SetOutput redirects the progress line, which goes to stderr by default.
func (p *Progress) SetOutput(w io.Writer) {
	p.mu.Lock()
	p.output = w
	p.mu.Unlock()
}

// Update records the completion of a task.
func (p *Progress) Update(s Stats) {
	p.mu.Lock()
	p.stats = s
	p.mu.Unlock()

	if p.enabled {
		p.Print()
	}
}

// Callback returns a ProgressFunc suitable for use with Pool.Config.
func (p *Progress) Callback() ProgressFunc {
	return p.Update
}

// Print displays the current progress to output.
func (p *Progress) Print() {
	p.mu.RLock()
	s := p.stats
	startTime := p.startTime
	out := p.output
	p.mu.RUnlock()

	completed, total := s.Completed, s.Total
	elapsed := time.Since(startTime)

	var rate float64
	var eta time.Duration
	if completed > 0 {
		rate = float64(completed) / elapsed.Seconds()
		remaining := total - completed
		if rate > 0 {
			eta = time.Duration(float64(remaining)/rate) * time.Second
		}
	}

	barWidth := 30
	progress := 1.0
	if total > 0 {
		progress = float64(completed) / float64(total)
	}
	filledWidth := int(progress * float64(barWidth))
	bar := strings.Repeat("█", filledWidth) + strings.Repeat("░", barWidth-filledWidth)

	line := fmt.Sprintf("\r[%s] %d/%d tiles", bar, completed, total)
	if s.Failed > 0 {
		line += fmt.Sprintf(" (%d failed)", s.Failed)
	}
	if s.Skipped > 0 {
		line += fmt.Sprintf(" (%d skipped)", s.Skipped)
	}
	line += fmt.Sprintf(" - %.1f tiles/sec", rate)
	if eta > 0 && completed < total {
		line += fmt.Sprintf(" - ETA: %s", formatDuration(eta))
	}
	if completed == total {
		line += fmt.Sprintf(" - Done in %s", formatDuration(elapsed))
	}

	// pad over the tail of a longer previous line
	line += "          "

	fmt.Fprint(out, line)
}

// Done prints the final progress and a newline.
func (p *Progress) Done() {
	if p.enabled {
		p.Print()
		fmt.Fprintln(p.output)
	}
}

// Summary returns a summary string of the completed work.
func (p *Progress) Summary() string {
	p.mu.RLock()
	s := p.stats
	startTime := p.startTime
	p.mu.RUnlock()

	elapsed := time.Since(startTime)
	rendered := s.Completed - s.Failed - s.Skipped

	var rate float64
	if elapsed.Seconds() > 0 {
		rate = float64(s.Completed) / elapsed.Seconds()
	}

	return fmt.Sprintf("Generated %d/%d tiles (%d skipped, %d failed) in %s (%.1f tiles/sec)",
		rendered, s.Total, s.Skipped, s.Failed, formatDuration(elapsed), rate)
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		secs := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", mins, secs)
	}
	hours := int(d.Hours())
	mins := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", hours, mins)
}
