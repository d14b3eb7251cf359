package tui

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	shimmerInterval = 100 * time.Millisecond
	shimmerWidth    = 0.25 // bell width relative to the text
	shimmerCycle    = 18   // ticks for one pass over the text
	shimmerPause    = 5    // ticks to hold between passes
)

// rgb is a truecolor triple
type rgb struct{ r, g, b int }

var (
	shimmerBase      = rgb{177, 184, 199} // ColorSecondaryText
	shimmerHighlight = rgb{234, 230, 255}
)

type shimmerTickMsg struct{}

// shimmer sweeps a highlight across a short label, such as the board title.
// It is static when the terminal lacks truecolor or DUEDECK_REDUCE_MOTION is set.
type shimmer struct {
	step   int
	active bool
}

func newShimmer() *shimmer {
	return &shimmer{
		active: os.Getenv("COLORTERM") == "truecolor" && os.Getenv("DUEDECK_REDUCE_MOTION") == "",
	}
}

func (s *shimmer) tick() tea.Cmd {
	if !s.active {
		return nil
	}
	return tea.Tick(shimmerInterval, func(time.Time) tea.Msg { return shimmerTickMsg{} })
}

func (s *shimmer) advance() {
	s.step = (s.step + 1) % (shimmerCycle + shimmerPause)
}

// center returns the highlight position for a label of n runes
func (s *shimmer) center(n int) float64 {
	if s.step >= shimmerCycle {
		return math.Inf(1)
	}
	span := float64(n) * (1 + 2*shimmerWidth)
	return -float64(n)*shimmerWidth + span*float64(s.step)/shimmerCycle
}

func (s *shimmer) render(text string) string {
	if !s.active {
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright)).Render(text)
	}
	runes := []rune(text)
	c := s.center(len(runes))
	sigma := math.Max(1, shimmerWidth*float64(len(runes))/2)

	var b strings.Builder
	for i, r := range runes {
		dx := float64(i) - c
		w := math.Exp(-(dx * dx) / (2 * sigma * sigma))
		col := blend(shimmerBase, shimmerHighlight, w)
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(col.hex())).Render(string(r)))
	}
	return b.String()
}

// blend linearly mixes a toward b by weight w in [0,1]
func blend(a, b rgb, w float64) rgb {
	w = math.Max(0, math.Min(1, w))
	mix := func(x, y int) int { return int(math.Round(float64(x)*(1-w) + float64(y)*w)) }
	return rgb{mix(a.r, b.r), mix(a.g, b.g), mix(a.b, b.b)}
}

func (c rgb) hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.r, c.g, c.b)
}
