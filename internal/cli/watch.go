package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"laundry-reservation/internal/syncer"
	"laundry-reservation/internal/tui"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Live view of machines and your reservation",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			// Log lines would tear the alternate screen.
			log.SetOutput(io.Discard)
			defer log.SetOutput(os.Stderr)

			go syncer.NewService(a.cfg.Sync, a.store, nil).Run(ctx)

			p := tea.NewProgram(tui.NewModel(a.store), tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("failed to run watch view: %w", err)
			}
			return nil
		},
	}
}
