// Package app wires one component run together: configuration, input
// enumeration, credential parsing, connection and the upload sequence.
package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/sftpwriter/internal/buildinfo"
	"github.com/dmitrijs2005/sftpwriter/internal/common"
	"github.com/dmitrijs2005/sftpwriter/internal/config"
	"github.com/dmitrijs2005/sftpwriter/internal/logging"
	"github.com/dmitrijs2005/sftpwriter/internal/sshx"
	"github.com/dmitrijs2005/sftpwriter/internal/staging"
	"github.com/dmitrijs2005/sftpwriter/internal/writer"
)

type App struct {
	cfg *config.Config
	log logging.Logger
}

func New(cfg *config.Config) *App {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	log := logging.NewSlogLogger(slog.New(handler)).With("run_id", uuid.NewString())

	return &App{cfg: cfg, log: log}
}

// Run executes one upload run. Every failure is logged with full detail
// before it is returned; the caller only maps it to an exit code.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.initSignalHandler(cancel)

	a.log.Info(ctx, "running component", "version", buildinfo.Version)

	tasks, err := staging.New(a.cfg.DataDir, a.log).Collect(ctx)
	if err != nil {
		return a.fail(ctx, err)
	}
	if len(tasks) == 0 {
		a.log.Warn(ctx, "no input tables or files found, nothing to upload")
		return nil
	}

	cred, err := sshx.NewKeyParser(a.log).Parse(ctx, a.cfg.PrivateKey, a.cfg.Password)
	if err != nil {
		return a.fail(ctx, err)
	}

	connect := func(ctx context.Context) (writer.Session, error) {
		sess, err := sshx.Dial(ctx, a.log, sshx.Options{
			Host:     a.cfg.Hostname,
			Port:     a.cfg.Port,
			User:     a.cfg.User,
			Password: a.cfg.Password,
			Key:      cred,
		})
		if err != nil {
			return nil, err
		}
		return sess, nil
	}

	if err := writer.NewService(a.cfg, a.log, connect).Run(ctx, tasks); err != nil {
		return a.fail(ctx, err)
	}

	a.log.Info(ctx, "done")
	return nil
}

func (a *App) initSignalHandler(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigs
		cancel()
	}()
}

func (a *App) fail(ctx context.Context, err error) error {
	if common.IsUserError(err) {
		a.log.Error(ctx, err.Error())
	} else {
		a.log.Error(ctx, "unexpected error", "error", err.Error())
	}
	return err
}
