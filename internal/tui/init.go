package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/studiowebux/arangotui/internal/bridge"
	"github.com/studiowebux/arangotui/internal/client"
	"github.com/studiowebux/arangotui/internal/config"
	"github.com/studiowebux/arangotui/internal/history"
	"github.com/studiowebux/arangotui/internal/keybinds"
	"github.com/studiowebux/arangotui/internal/navigator"
	"github.com/studiowebux/arangotui/internal/types"
)

// CheckServer runs the startup version checks. The database version is
// required; the GAE version is optional and nil when unavailable.
func CheckServer(ctx context.Context, src bridge.Source, logger *zap.Logger) (types.ServerVersion, *types.GAEVersion, error) {
	server, err := src.Version(ctx)
	if err != nil {
		return types.ServerVersion{}, nil, fmt.Errorf("failed to reach ArangoDB: %w", err)
	}
	logger.Info("connected",
		zap.String("server", server.Server),
		zap.String("version", server.Version),
		zap.String("license", server.License),
	)

	gae, err := src.GAEVersion(ctx)
	if err != nil {
		logger.Warn("GAE not available", zap.Error(err))
		return server, nil, nil
	}
	logger.Info("GAE connected", zap.String("version", gae.Version))
	return server, &gae, nil
}

// Run connects to the cluster and starts the TUI. It returns once the user
// quits.
func Run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	c, err := client.New(cfg.ClientEndpoint(), logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	server, gae, err := CheckServer(ctx, c, logger)
	if err != nil {
		return err
	}

	keys, err := keybinds.LoadOrDefault(config.KeybindsPath)
	if err != nil {
		logger.Warn("using default keybinds", zap.Error(err))
		keys = keybinds.NewDefaultRegistry()
	}

	var store QueryStore
	if cfg.HistoryEnabled() {
		mgr, err := history.NewManager(config.DatabasePath, cfg.Endpoint)
		if err != nil {
			logger.Warn("query history disabled", zap.Error(err))
		} else {
			defer mgr.Close()
			store = mgr
		}
	}

	b := bridge.New(c, logger, bridge.Options{Workers: cfg.Concurrency})
	defer b.Close()

	nav := navigator.New(b, navigator.Options{PageSize: cfg.PageSize, Logger: logger})

	m := New(Options{
		Navigator:   nav,
		Completions: b,
		Keybinds:    keys,
		History:     store,
		Logger:      logger,
		Config:      cfg,
		Server:      server,
		GAE:         gae,
	})

	// Note: Mouse is disabled by default in bubbletea
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("quit", zap.Int64("dropped_completions", b.Dropped()))
	return nil
}
