package staging

import (
	"context"

	"github.com/dmitrijs2005/sftpwriter/internal/logging"
)

// nopLogger satisfies logging.Logger for tests that do not inspect output.
type nopLogger struct{}

func newFakeLogger() logging.Logger { return nopLogger{} }

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (nopLogger) With(...any) logging.Logger            { return nopLogger{} }
