package components

import (
	"fmt"
	"strings"

	"github.com/kerbaras/komgas/pkg/app/styles"
)

// ReadProgress renders a series' read state as a bar with a caption.
type ReadProgress struct {
	Read  int
	Total int
	Width int
}

func NewReadProgress(width int) *ReadProgress {
	return &ReadProgress{Width: width}
}

func (p *ReadProgress) Set(read, total int) {
	p.Read = read
	p.Total = total
}

func (p *ReadProgress) View() string {
	if p.Total == 0 {
		return ""
	}

	var b strings.Builder
	percentage := float64(p.Read) / float64(p.Total) * 100
	caption := fmt.Sprintf("%d/%d chapters read (%.0f%%)", p.Read, p.Total, percentage)

	b.WriteString(renderProgressBar(p.Read, p.Total, p.Width-4))
	b.WriteString("\n")
	b.WriteString(styles.MutedStyle.Render(caption))

	return b.String()
}

func renderProgressBar(current, total, width int) string {
	if total == 0 {
		return ""
	}

	filled := int(float64(current) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return styles.ProgressBarStyle.Render(bar)
}

// SimpleProgress renders a simple progress bar
func SimpleProgress(current, total, width int) string {
	return renderProgressBar(current, total, width)
}
