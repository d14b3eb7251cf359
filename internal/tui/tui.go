package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/duedeck/internal/models"
	"github.com/balkashynov/duedeck/internal/repository"
)

// RunAddForm opens the interactive add form prefilled from in.
// It returns the created task, or nil if the user cancelled.
func RunAddForm(ctx context.Context, repo *repository.Repository, in repository.NewTask) (*models.Task, error) {
	p := tea.NewProgram(NewAddFormModel(ctx, repo, in), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	if m, ok := final.(AddFormModel); ok {
		return m.Created(), nil
	}
	return nil, nil
}

// RunBoard shows the priority board full screen until the user quits
func RunBoard(ctx context.Context, repo *repository.Repository, category string) error {
	p := tea.NewProgram(NewBoardModel(ctx, repo, category), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
