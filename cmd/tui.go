package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/encorefm/encore/internal/shared"
	"github.com/encorefm/encore/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive recommendation browser for one user.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	userID := cmd.String("user-id")
	limit := int(cmd.Int("limit"))
	if limit <= 0 {
		limit = r.defaultLimit()
	}

	if _, err := r.users.Get(userID); err != nil {
		return fmt.Errorf("failed to resolve user %s: %w", userID, err)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/encore-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.engine, userID, limit)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
