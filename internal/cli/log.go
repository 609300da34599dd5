package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates the CLI logger. Timestamps read "15:04:05.00".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times a command: stage logs each step at debug level, done
// logs the total at info level.
type progress struct {
	logger *log.Logger
	start  time.Time
	mark   time.Time
}

func newProgress(l *log.Logger) *progress {
	now := time.Now()
	return &progress{logger: l, start: now, mark: now}
}

// stage logs the time since the previous stage (or the start).
func (p *progress) stage(name string, keyvals ...any) {
	now := time.Now()
	keyvals = append(keyvals, "took", now.Sub(p.mark).Round(time.Microsecond))
	p.logger.Debug(name, keyvals...)
	p.mark = now
}

// done logs msg with the total elapsed time, e.g. "Built 12 classes (4ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached by the root command, or
// log.Default() outside a command run.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
