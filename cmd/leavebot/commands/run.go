package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/myslide/leavebot/internal/approval"
	"github.com/myslide/leavebot/internal/audit"
	"github.com/myslide/leavebot/internal/bus"
	"github.com/myslide/leavebot/internal/channel"
	"github.com/myslide/leavebot/internal/channel/telegram"
	"github.com/myslide/leavebot/internal/config"
	"github.com/myslide/leavebot/internal/directory"
	"github.com/myslide/leavebot/internal/flow"
	"github.com/myslide/leavebot/internal/gateway"
	"github.com/myslide/leavebot/internal/notify"
	"github.com/myslide/leavebot/internal/reminder"
	"github.com/myslide/leavebot/internal/store"
)

func NewRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the Leavebot server",
		RunE:  runServer,
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if strings.TrimSpace(cfg.Telegram.Token) == "" {
		return errors.New("telegram token is not configured; set LEAVEBOT_TELEGRAM_TOKEN or edit the config")
	}

	st, err := store.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	dir := directory.New(st)
	if err := dir.Seed(ctx, directoryUsers(cfg)); err != nil {
		return fmt.Errorf("failed to seed directory: %w", err)
	}

	msgBus := bus.NewMessageBus(100)
	logger := slog.Default()
	dispatch := notify.NewDispatcher(msgBus, "telegram", logger)
	auditor := audit.NewWriter(config.ConfigDir())
	approvals := approval.NewController(st, dir, dispatch, logger)
	approvals.SetAudit(auditor)

	sessions := flow.NewSessions(time.Duration(cfg.Session.TTLMinutes) * time.Minute)
	engine := flow.NewEngine(sessions, st, dir, dispatch, approvals, msgBus, logger)
	engine.SetAudit(auditor)
	go engine.Run(ctx, time.Duration(cfg.Session.SweepMinutes)*time.Minute)

	chanMgr := channel.NewManager(msgBus)
	chanMgr.Register(telegram.New(&cfg.Telegram, msgBus))
	chanMgr.StartAll(ctx)
	go chanMgr.RouteOutbound(ctx)

	var reminders *reminder.Service
	if cfg.Reminder.Enabled {
		reminders, err = reminder.NewService(st, dir, dispatch, cfg.Reminder.Cron, logger)
		if err != nil {
			return err
		}
		reminders.Start()
	}

	errCh := make(chan error, 1)
	var gatewayServer *gateway.Server
	if cfg.Gateway.Enabled {
		gatewayServer = gateway.New(cfg.Gateway, st)
		go func() {
			if err := gatewayServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("gateway server failed: %w", err)
			}
		}()
		fmt.Printf("Leavebot running. Gateway: http://%s\nPress Ctrl+C to stop.\n", gatewayServer.Addr())
	} else {
		fmt.Println("Leavebot running. Press Ctrl+C to stop.")
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		slog.Error("server component failed", "error", runErr)
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	slog.Info("shutting down")
	if reminders != nil {
		reminders.Stop()
	}
	chanMgr.StopAll(shutdownCtx)
	if gatewayServer != nil {
		if err := gatewayServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Warn("gateway shutdown failed", "error", err)
		}
	}

	return runErr
}

func directoryUsers(cfg *config.Config) []store.User {
	users := make([]store.User, 0, len(cfg.Directory))
	for _, u := range cfg.Directory {
		users = append(users, store.User{
			ID:   strings.TrimSpace(u.ID),
			Name: u.Name,
			Role: store.Role(u.Role),
		})
	}
	return users
}
