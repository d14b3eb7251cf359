package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/duedeck/internal/deadline"
	"github.com/balkashynov/duedeck/internal/models"
	"github.com/balkashynov/duedeck/internal/parser"
	"github.com/balkashynov/duedeck/internal/repository"
	"github.com/balkashynov/duedeck/internal/stats"
)

type boardKeyMap struct {
	Next    key.Binding
	Prev    key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func (k boardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Refresh, k.Help, k.Quit}
}

func (k boardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Next, k.Prev}, {k.Refresh, k.Help, k.Quit}}
}

func newBoardKeyMap() boardKeyMap {
	return boardKeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next category"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("shift+tab", "previous category"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

type boardLoadedMsg struct {
	board      stats.Board
	categories []string
	now        time.Time
	err        error
}

// BoardModel shows the priority columns for all tasks or one category
type BoardModel struct {
	ctx  context.Context
	repo *repository.Repository

	keys    boardKeyMap
	help    help.Model
	shimmer *shimmer

	categories []string // index 0 is every category
	catIdx     int
	board      stats.Board
	now        time.Time
	err        error

	width  int
	height int
}

// NewBoardModel creates a board starting on the given category ("" for all)
func NewBoardModel(ctx context.Context, repo *repository.Repository, category string) BoardModel {
	h := help.New()
	h.Styles.ShortKey = fg(ColorAccentBright)
	h.Styles.ShortDesc = fg(ColorHelpText)
	h.Styles.FullKey = fg(ColorAccentBright)
	h.Styles.FullDesc = fg(ColorHelpText)

	m := BoardModel{
		ctx:        ctx,
		repo:       repo,
		keys:       newBoardKeyMap(),
		help:       h,
		shimmer:    newShimmer(),
		categories: categoryCycle(repo.Categories()),
	}
	for i, c := range m.categories {
		if c == category {
			m.catIdx = i
		}
	}
	m.board = repo.Board(category)
	m.now = repo.Now()
	return m
}

// categoryCycle lists the filters tab moves through
func categoryCycle(cats []models.Category) []string {
	out := []string{""}
	for _, c := range cats {
		out = append(out, c.Name)
	}
	return out
}

// cycle moves idx by delta around n entries
func cycle(idx, n, delta int) int {
	if n == 0 {
		return 0
	}
	return ((idx+delta)%n + n) % n
}

func (m BoardModel) category() string {
	if m.catIdx >= len(m.categories) {
		return ""
	}
	return m.categories[m.catIdx]
}

func (m BoardModel) load(reload bool) tea.Cmd {
	ctx, repo, category := m.ctx, m.repo, m.category()
	return func() tea.Msg {
		var err error
		if reload {
			err = repo.Refresh(ctx)
		}
		return boardLoadedMsg{
			board:      repo.Board(category),
			categories: categoryCycle(repo.Categories()),
			now:        repo.Now(),
			err:        err,
		}
	}
}

func (m BoardModel) Init() tea.Cmd {
	return m.shimmer.tick()
}

func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case shimmerTickMsg:
		m.shimmer.advance()
		return m, m.shimmer.tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case boardLoadedMsg:
		current := m.category()
		m.board, m.now, m.err = msg.board, msg.now, msg.err
		m.categories = msg.categories
		m.catIdx = 0
		for i, c := range m.categories {
			if c == current {
				m.catIdx = i
			}
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.catIdx = cycle(m.catIdx, len(m.categories), 1)
			return m, m.load(false)
		case key.Matches(msg, m.keys.Prev):
			m.catIdx = cycle(m.catIdx, len(m.categories), -1)
			return m, m.load(false)
		case key.Matches(msg, m.keys.Refresh):
			return m, m.load(true)
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}
	return m, nil
}

func (m BoardModel) View() string {
	var b strings.Builder

	label := "All categories"
	if c := m.category(); c != "" {
		label = c
	}
	b.WriteString(m.shimmer.render("duedeck"))
	b.WriteString("  ")
	b.WriteString(fg(ColorSecondaryText).Render(label))
	b.WriteString("\n\n")

	cols := m.board.Columns()
	width := columnWidth(m.width, len(cols))
	rendered := make([]string, len(cols))
	for i, col := range cols {
		rendered[i] = m.renderColumn(col, width)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(fg(ColorError).Render("Refresh failed: " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// columnWidth splits the terminal across n bordered columns
func columnWidth(total, n int) int {
	if n == 0 {
		return 0
	}
	w := total/n - 2
	if w < 18 {
		w = 18
	}
	return w
}

func (m BoardModel) renderColumn(col stats.Column, width int) string {
	color := lipgloss.Color(ColorSuccess)
	if len(col.Tasks) > 0 && !strings.HasPrefix(col.Title, "Completed") {
		color = priorityColor(stats.Tier(col.Tasks[0].Priority))
	}

	var b strings.Builder
	title := fmt.Sprintf("%s (%d)", col.Title, len(col.Tasks))
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(color).Render(title))
	b.WriteString("\n")
	for _, t := range col.Tasks {
		b.WriteString("\n")
		b.WriteString(renderCard(t, m.now, width-2))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(0, 1).
		Render(b.String())
}

// renderCard draws one task. Overdue tasks are marked and drawn in red.
func renderCard(t models.Task, now time.Time, width int) string {
	action := truncate(t.Action, width)
	meta := []string{}
	if t.Assignee != "" {
		meta = append(meta, "@"+t.Assignee)
	}
	if t.Category != "" {
		meta = append(meta, "#"+t.Category)
	}

	overdue := deadline.TaskOverdue(t, now)
	actionStyle := fg(ColorPrimaryText)
	if overdue {
		actionStyle = fg(ColorError).Bold(true)
		action = truncate("! "+t.Action, width)
	} else if t.Status == models.StatusDone {
		actionStyle = fg(ColorDisabledText).Strikethrough(true)
	}

	lines := []string{actionStyle.Render(action)}
	if len(meta) > 0 {
		lines = append(lines, fg(ColorAccentBright).Render(truncate(strings.Join(meta, " "), width)))
	}
	if t.TargetDeadline != nil && t.Status != models.StatusDone {
		dueStyle := fg(ColorSecondaryText)
		if overdue {
			dueStyle = fg(ColorError)
		}
		lines = append(lines, dueStyle.Render(truncate(parser.FormatDeadline(t.TargetDeadline, now), width)))
	}
	if t.Status == models.StatusBlocked || t.Status == models.StatusInProgress {
		lines = append(lines, fg(ColorWarning).Render(string(t.Status)))
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}
