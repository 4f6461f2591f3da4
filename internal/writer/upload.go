package writer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/pkg/sftp"
	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/sftpwriter/internal/common"
	"github.com/dmitrijs2005/sftpwriter/internal/logging"
)

const (
	// DefaultMaxAttempts caps one file's transfer attempts, the first try
	// included.
	DefaultMaxAttempts = 5

	// DefaultInitialBackoff is the delay before the first retry; it doubles
	// on each subsequent one.
	DefaultInitialBackoff = 1 * time.Second
)

// transport is the single transfer primitive the uploader drives.
type transport interface {
	Upload(ctx context.Context, localPath, remotePath string) error
}

// Uploader wraps a transport with bounded exponential-backoff retries and
// translates terminal failures into the user-facing error taxonomy.
type Uploader struct {
	sess transport
	log  logging.Logger

	maxAttempts    uint64
	initialBackoff time.Duration
}

func NewUploader(sess transport, log logging.Logger) *Uploader {
	return &Uploader{
		sess:           sess,
		log:            log,
		maxAttempts:    DefaultMaxAttempts,
		initialBackoff: DefaultInitialBackoff,
	}
}

// Upload transfers one file, re-sending the whole file on every retry.
// Only transient failures are retried; exhaustion or a terminal error is
// classified and returned, aborting the batch.
func (u *Uploader) Upload(ctx context.Context, localPath, remotePath string) error {
	backoff := retry.WithMaxRetries(u.maxAttempts-1, retry.NewExponential(u.initialBackoff))

	var attempt uint64
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++

		err := u.sess.Upload(ctx, localPath, remotePath)
		if err == nil {
			return nil
		}

		if isTransient(err) {
			u.log.Warn(ctx, "upload attempt failed",
				"destination", remotePath,
				"attempt", attempt,
				"max_attempts", u.maxAttempts,
				"error", err.Error())
			return retry.RetryableError(err)
		}

		return err
	})
	if err == nil {
		return nil
	}

	return classifyUploadError(err, remotePath)
}

// isTransient reports whether an upload failure may heal on its own:
// connection-level errors, generic I/O failures and not-found conditions
// (the remote directory state may still be propagating). Permission
// rejections and cancellations never do.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, os.ErrPermission) {
		return false
	}
	if errors.Is(err, os.ErrNotExist) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	if errors.Is(err, sftp.ErrSSHFxConnectionLost) || errors.Is(err, sftp.ErrSSHFxNoConnection) {
		return true
	}

	var status *sftp.StatusError
	if errors.As(err, &status) {
		switch status.FxCode() {
		case sftp.ErrSSHFxConnectionLost, sftp.ErrSSHFxNoConnection, sftp.ErrSSHFxFailure:
			return true
		}
	}

	return false
}

// classifyUploadError maps the final transfer error onto the taxonomy the
// operator sees.
func classifyUploadError(err error, remotePath string) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %s does not exist on the server, check the configured remote path (%v)",
			common.ErrRemotePathNotFound, remotePath, err)
	case errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w: writing %s was denied, choose a different remote directory (%v)",
			common.ErrRemotePermissionDenied, remotePath, err)
	default:
		return fmt.Errorf("uploading %s: %w", remotePath, err)
	}
}
