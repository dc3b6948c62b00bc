package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tunneldash/tunneldash/internal/config"
	"github.com/tunneldash/tunneldash/internal/core"
	"github.com/tunneldash/tunneldash/internal/history"
	"github.com/tunneldash/tunneldash/internal/panelapi"
	"github.com/tunneldash/tunneldash/internal/tui"
)

func runDashboard(cfg config.Config) {
	panelURL := strings.TrimSpace(cfg.PanelURL)
	if panelURL == "" {
		fmt.Fprintf(os.Stderr, "No panel_url configured. Set it in %s or run: tunneldash login <panel-url> <token>\n", config.ConfigPath())
		os.Exit(1)
	}

	creds, err := config.LoadCredentials()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading credentials: %v\n", err)
		os.Exit(1)
	}
	token := creds.Tokens[panelURL]
	if token == "" {
		fmt.Fprintf(os.Stderr, "No token stored for %s. Run: tunneldash login %s <token>\n", panelURL, panelURL)
		os.Exit(1)
	}

	client := panelapi.New(panelURL, token)

	// The history cache is best-effort: if sqlite cannot be opened the
	// dashboard still runs, it just loses offline fallback.
	var fetcher core.UsageFetcher = client
	store, err := history.OpenStore(filepath.Join(config.ConfigDir(), "history.db"))
	if err != nil {
		log.Printf("history cache unavailable: %v", err)
	} else {
		defer store.Close()
		fetcher = history.NewCachingFetcher(client, store)
	}

	loc := core.ParseLocale(cfg.UI.Locale)
	shortcut := core.ParseShortcut(cfg.UI.DefaultShortcut)
	interval := time.Duration(cfg.UI.RefreshIntervalSeconds) * time.Second

	engine := core.NewEngine(fetcher, interval, loc)
	engine.SetSelection(core.Selection{Shortcut: shortcut})

	model := tui.NewModel(shortcut, core.ScopeNodes, loc)

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

	watcher, err := config.Watch(config.ConfigPath(), func(next config.Config) {
		engine.SetSelection(core.Selection{Shortcut: core.ParseShortcut(next.UI.DefaultShortcut)})
		go engine.Refresh(ctx)
	})
	if err != nil {
		log.Printf("config watch unavailable: %v", err)
	} else {
		defer watcher.Close()
	}

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
