package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/matzehuels/archscape/pkg/config"
)

// newLogger returns a charm logger stamping lines with a centisecond clock.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// configureLogging applies the [log] section. --verbose wins over the
// configured level. A configured file receives a copy of every line and is
// rotated by lumberjack.
func (c *CLI) configureLogging(cfg config.Log) error {
	if !c.verbose && cfg.Level != "" {
		level, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
		c.Logger.SetLevel(level)
	}
	if cfg.File == "" || c.logFile != nil {
		return nil
	}
	file := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
	c.logFile = file
	c.Logger.SetOutput(io.MultiWriter(c.out, file))
	return nil
}

// progress times one step, such as building the workspace.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs "msg (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type loggerKey struct{}

// withLogger carries l to the subcommands through the cobra context.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger set by withLogger, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
