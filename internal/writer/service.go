package writer

import (
	"context"

	"github.com/dmitrijs2005/sftpwriter/internal/config"
	"github.com/dmitrijs2005/sftpwriter/internal/logging"
	"github.com/dmitrijs2005/sftpwriter/internal/staging"
)

// Session is the connection handle the orchestrator owns for the run.
type Session interface {
	Upload(ctx context.Context, localPath, remotePath string) error
	Close() error
}

// Connector opens the session; it fails with one of the classified
// connection errors.
type Connector func(ctx context.Context) (Session, error)

// Service runs the upload sequence: connect once, upload every task in
// order, release the connection exactly once whatever happens.
type Service struct {
	cfg      *config.Config
	log      logging.Logger
	connect  Connector
	resolver Resolver
}

func NewService(cfg *config.Config, log logging.Logger, connect Connector) *Service {
	return &Service{cfg: cfg, log: log, connect: connect}
}

// Run uploads all tasks over a single connection. The first failure aborts
// the remaining tasks and propagates; per-task errors are never swallowed.
func (s *Service) Run(ctx context.Context, tasks []staging.Task) error {
	sess, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			s.log.Warn(ctx, "closing connection", "error", cerr.Error())
		}
	}()

	uploader := NewUploader(sess, s.log)

	for _, task := range tasks {
		destination := s.resolver.Resolve(
			s.cfg.RemotePath, task.Name, s.cfg.AppendDate, s.cfg.AppendDateFormat)

		s.log.Info(ctx, "uploading",
			"kind", string(task.Kind),
			"source", task.LocalPath,
			"destination", destination)

		if err := uploader.Upload(ctx, task.LocalPath, destination); err != nil {
			return err
		}
	}

	s.log.Info(ctx, "upload finished", "files", len(tasks))
	return nil
}
