package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slidesmith/pkg/pipeline"
)

// newLogger creates a logger writing to w at level with short
// "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// deckProgress logs the stages of one deck generation. Stage transitions
// go to the debug level; the final summary is logged at info.
type deckProgress struct {
	logger *log.Logger
	start  time.Time

	stage      pipeline.Stage
	stageStart time.Time
}

func newDeckProgress(l *log.Logger) *deckProgress {
	now := time.Now()
	return &deckProgress{logger: l, start: now, stageStart: now}
}

// Stage closes the running stage and opens the next one. It has the
// signature of [pipeline.Options.OnStage].
func (p *deckProgress) Stage(stage pipeline.Stage, n int) {
	now := time.Now()
	if p.stage != "" {
		p.logger.Debug("stage done", "stage", p.stage, "took", now.Sub(p.stageStart).Round(time.Millisecond))
	}
	p.stage, p.stageStart = stage, now
	p.logger.Debug("stage", "stage", stage, "items", n)
}

// done logs the deck summary with the total elapsed time, e.g.
// "Generated 12 slides (1.234s)".
func (p *deckProgress) done(result *pipeline.Result) {
	p.logger.Infof("Generated %d %s (%s)", result.Stats.Slides, plural(result.Stats.Slides, "slide"),
		time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx for loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
