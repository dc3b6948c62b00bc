// Demo runs the dashboard against a synthetic panel so the TUI can be
// exercised without a live deployment or credentials.
package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tunneldash/tunneldash/internal/core"
	"github.com/tunneldash/tunneldash/internal/tui"
)

func main() {
	if os.Getenv("TUNNELDASH_DEBUG") != "" {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(io.Discard)
	}

	engine := core.NewEngine(newDemoPanel(), 5*time.Second, core.LocaleEnglish)
	model := tui.NewModel(core.Shortcut24h, core.ScopeNodes, core.LocaleEnglish)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var program *tea.Program

	model.SetOnSelectionChange(func(sel core.Selection) {
		engine.SetSelection(sel)
	})
	model.SetOnScopeChange(func(scope core.Scope) {
		engine.SetScope(scope)
	})
	model.SetOnRefresh(func() {
		go engine.Refresh(ctx)
	})

	program = tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	engine.OnUpdate(func(update core.UsageUpdate) {
		program.Send(tui.UsageMsg(update))
	})
	go engine.Run(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("TUI error: %v", err)
	}
}
