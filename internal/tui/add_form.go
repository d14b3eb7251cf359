package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/duedeck/internal/models"
	"github.com/balkashynov/duedeck/internal/parser"
	"github.com/balkashynov/duedeck/internal/repository"
)

// Field indexes in the add form
const (
	fieldAction = iota
	fieldAssignee
	fieldCategory
	fieldDueBy
	fieldEnergy
	fieldCount
)

var fieldLabels = [fieldCount]string{"Action", "Assignee", "Category", "Due by", "Energy"}

type taskCreatedMsg struct {
	task models.Task
	err  error
}

// AddFormModel collects a new task and saves it through the repository
type AddFormModel struct {
	ctx  context.Context
	repo *repository.Repository

	inputs  []textinput.Model
	focus   int
	status  models.Status
	shimmer *shimmer

	saving        bool
	validationErr string
	created       *models.Task
	cancelled     bool

	width int
}

// NewAddFormModel creates the form, prefilled from in
func NewAddFormModel(ctx context.Context, repo *repository.Repository, in repository.NewTask) AddFormModel {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 60
		inputs[i].TextStyle = fg(ColorPrimaryText)
		inputs[i].PlaceholderStyle = fg(ColorPlaceholder)
		inputs[i].Cursor.Style = fg(ColorAccentBright)
	}

	inputs[fieldAction].Placeholder = "What needs doing? (required)"
	inputs[fieldAction].CharLimit = 500
	inputs[fieldAction].SetValue(in.Action)

	inputs[fieldAssignee].Placeholder = "Team member"
	inputs[fieldAssignee].CharLimit = 100
	inputs[fieldAssignee].SetValue(in.Assignee)

	inputs[fieldCategory].Placeholder = "Category (Enter to skip)"
	inputs[fieldCategory].CharLimit = 100
	inputs[fieldCategory].SetValue(in.Category)

	inputs[fieldDueBy].Placeholder = parser.DueByChoices() + " (default This Week)"
	inputs[fieldDueBy].CharLimit = 20
	inputs[fieldDueBy].SetValue(string(in.DueBy))

	inputs[fieldEnergy].Placeholder = "low, medium, high (default medium)"
	inputs[fieldEnergy].CharLimit = 10
	inputs[fieldEnergy].SetValue(string(in.Energy))

	inputs[fieldAction].Focus()

	return AddFormModel{
		ctx:     ctx,
		repo:    repo,
		inputs:  inputs,
		status:  in.Status,
		shimmer: newShimmer(),
	}
}

// Created returns the saved task, or nil when the form was cancelled
func (m AddFormModel) Created() *models.Task {
	return m.created
}

// newTask validates the inputs into a NewTask
func (m AddFormModel) newTask() (repository.NewTask, error) {
	in := repository.NewTask{
		Action:   strings.TrimSpace(m.inputs[fieldAction].Value()),
		Assignee: strings.TrimSpace(m.inputs[fieldAssignee].Value()),
		Category: strings.TrimSpace(m.inputs[fieldCategory].Value()),
		Status:   m.status,
	}
	if in.Action == "" {
		return in, fmt.Errorf("action is required")
	}
	if v := strings.TrimSpace(m.inputs[fieldDueBy].Value()); v != "" {
		dueBy, err := parser.ParseDueBy(v)
		if err != nil {
			return in, err
		}
		in.DueBy = dueBy
	}
	if v := strings.TrimSpace(m.inputs[fieldEnergy].Value()); v != "" {
		energy, ok := parser.ParseEnergy(v)
		if !ok {
			return in, fmt.Errorf("invalid energy '%s'. Use: low, medium or high", v)
		}
		in.Energy = energy
	}
	return in, nil
}

func (m AddFormModel) save() (AddFormModel, tea.Cmd) {
	in, err := m.newTask()
	if err != nil {
		m.validationErr = err.Error()
		return m, nil
	}
	m.validationErr = ""
	m.saving = true
	ctx, repo := m.ctx, m.repo
	return m, func() tea.Msg {
		task, err := repo.CreateTask(ctx, in)
		return taskCreatedMsg{task: task, err: err}
	}
}

func (m AddFormModel) setFocus(i int) AddFormModel {
	m.inputs[m.focus].Blur()
	m.focus = cycle(i, fieldCount, 0)
	m.inputs[m.focus].Focus()
	return m
}

func (m AddFormModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.shimmer.tick())
}

func (m AddFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case shimmerTickMsg:
		m.shimmer.advance()
		return m, m.shimmer.tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		w := msg.Width - 20
		if w < 30 {
			w = 30
		}
		if w > 80 {
			w = 80
		}
		for i := range m.inputs {
			m.inputs[i].Width = w
		}
		return m, nil

	case taskCreatedMsg:
		m.saving = false
		if msg.err != nil {
			m.validationErr = msg.err.Error()
			return m, nil
		}
		m.created = &msg.task
		return m, tea.Quit

	case tea.KeyMsg:
		if m.saving {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "ctrl+s":
			return m.save()
		case "enter":
			if m.focus == fieldCount-1 {
				return m.save()
			}
			if m.focus == fieldAction && strings.TrimSpace(m.inputs[fieldAction].Value()) == "" {
				m.validationErr = "action is required"
				return m, nil
			}
			m.validationErr = ""
			return m.setFocus(m.focus + 1), nil
		case "tab", "down":
			return m.setFocus(m.focus + 1), nil
		case "shift+tab", "up":
			return m.setFocus(m.focus - 1), nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m AddFormModel) View() string {
	if m.cancelled || m.created != nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.shimmer.render("New task"))
	b.WriteString("\n\n")

	for i, input := range m.inputs {
		label := fg(ColorSecondaryText)
		marker := "  "
		if i == m.focus {
			label = fg(ColorAccentBright).Bold(true)
			marker = fg(ColorAccentBright).Render("> ")
		}
		b.WriteString(marker)
		b.WriteString(label.Width(10).Render(fieldLabels[i]))
		b.WriteString(input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.saving:
		b.WriteString(fg(ColorWarning).Render("Saving..."))
	case m.validationErr != "":
		b.WriteString(fg(ColorError).Render(m.validationErr))
	}
	b.WriteString("\n")
	b.WriteString(fg(ColorHelpText).Italic(true).Render("tab/↑↓ move · enter next · ctrl+s save · esc cancel"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1, 2).
		Render(b.String())
}
