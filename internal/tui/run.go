package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/credit-limit-engine/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

// Browse shows the evaluations in an interactive table until the user quits
// or ctx is canceled.
func Browse(ctx context.Context, evaluations []model.Evaluation, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	p := tea.NewProgram(newModel(evaluations), opts...)

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("results browser failed: %w", err)
	}
	return nil
}
