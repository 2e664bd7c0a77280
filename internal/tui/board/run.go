package board

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the board and blocks until the user quits or ctx ends. The
// bridge must be the renderer and status sink of deps.Panel. Messages
// pushed on updates (such as config reloads) are delivered while running.
// On return every panel pass started by the board has stopped.
func Run(ctx context.Context, deps Deps, bridge *Bridge, updates <-chan tea.Msg) error {
	model := New(ctx, deps)
	prog := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	defer model.Stop()
	bridge.Attach(prog)
	defer bridge.Attach(nil)

	if updates != nil {
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case msg, ok := <-updates:
					if !ok {
						return
					}
					prog.Send(msg)
				}
			}
		}()
	}

	if _, err := prog.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("running board: %w", err)
	}
	return nil
}
