// Command staffagent runs the hotel staff client for one device. It restores
// the device identity, performs the activation handshake, drives the
// role-specific workflow from a small command prompt, and keeps the view
// fresh with a background poll.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/example/hotel-staff-agent/internal/activation"
	"github.com/example/hotel-staff-agent/internal/api"
	"github.com/example/hotel-staff-agent/internal/breakfast"
	"github.com/example/hotel-staff-agent/internal/config"
	"github.com/example/hotel-staff-agent/internal/devinfo"
	"github.com/example/hotel-staff-agent/internal/identity"
	"github.com/example/hotel-staff-agent/internal/logging"
	"github.com/example/hotel-staff-agent/internal/persistence/sqlite"
	"github.com/example/hotel-staff-agent/internal/photo"
	"github.com/example/hotel-staff-agent/internal/poll"
	"github.com/example/hotel-staff-agent/internal/report"
	"github.com/example/hotel-staff-agent/internal/view"
	"github.com/example/hotel-staff-agent/internal/view/console"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stderr, parseLevel(cfg.LogLevel))

	staffRole, err := cfg.StaffRole()
	if err != nil {
		logger.Error("invalid role", "error", err)
		os.Exit(1)
	}

	storage, err := sqlite.Open(cfg.StatePath)
	if err != nil {
		logger.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close state database", "error", cerr)
		}
	}()
	if err := storage.Migrate(ctx); err != nil {
		logger.Error("failed to migrate state database", "error", err)
		os.Exit(1)
	}

	identities := identity.NewStore(storage, nil, nil, logger)
	id, err := identities.Ensure(ctx)
	if err != nil {
		logger.Error("failed to establish device identity", "error", err)
		os.Exit(1)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		logger.Error("failed to build cookie jar", "error", err)
		os.Exit(1)
	}
	ui := console.New(os.Stdout)

	client, err := api.NewClient(api.ClientConfig{
		BaseURL:    cfg.BaseURL,
		HTTPClient: &http.Client{Jar: jar, Timeout: 30 * time.Second},
		Indicator:  ui,
		DeviceID:   func() string { return id.DeviceID },
		Logger:     logger,
	})
	if err != nil {
		logger.Error("failed to build API client", "error", err)
		os.Exit(1)
	}

	mirror := identity.NewCookieMirror(jar, client.BaseURL(), nil)
	act := activation.NewClient(client, identities, mirror, devinfo.Collect(), logger)

	status, err := act.Handshake(ctx, id)
	if err != nil {
		// The agent stays usable offline; every guarded operation keeps
		// rejecting until a later handshake succeeds.
		ui.ReportError(view.ErrorOptions{Message: "Server je nedostupný.", Retryable: true})
	} else {
		fmt.Printf("Zařízení %s, stav: %s, role: %s\n", id.DeviceID, status, staffRole)
	}

	app := &agent{
		role:       staffRole,
		activation: act,
		identities: identities,
		deviceID:   id.DeviceID,
		ui:         ui,
		logger:     logger,
	}

	var refresh func(context.Context) error
	if staffRole.UsesBreakfast() {
		app.breakfast = breakfast.NewWorkflow(client, act.StatusFunc(), ui, logger)
		refresh = app.breakfast.Refresh
	} else {
		category, _ := staffRole.ReportCategory()
		app.photos = photo.NewQueue(photo.NewMemoryPreviewer(), ui, logger)
		app.report = report.NewWorkflow(client, app.photos, act.StatusFunc(), ui, category, nil, logger)
		refresh = app.report.RefreshOpenItems
	}

	if err := app.firstLoad(ctx); err != nil {
		logger.Warn("initial load failed", "error", err)
	} else {
		scheduler := poll.NewScheduler(cfg.PollInterval, refresh, poll.AlwaysVisible, func() bool {
			return act.Status().IsActive()
		}, logger)
		go scheduler.Run(ctx)
	}

	app.commandLoop(ctx)
}

func parseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
