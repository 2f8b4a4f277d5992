package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/slidesmith/pkg/pipeline"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// deckSpinner animates a one-line status while a deck is generated. Its
// message follows the pipeline stage reported through [deckSpinner.Stage].
type deckSpinner struct {
	w      io.Writer
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
	exited chan struct{}

	mu      sync.Mutex
	message string
	width   int // widest line drawn, for clearing
}

// newDeckSpinner returns a spinner drawing on w. It stops drawing when ctx
// is cancelled.
func newDeckSpinner(ctx context.Context, w io.Writer) *deckSpinner {
	ctx, cancel := context.WithCancel(ctx)
	return &deckSpinner{
		w:       w,
		ctx:     ctx,
		cancel:  cancel,
		exited:  make(chan struct{}),
		message: "Planning deck...",
	}
}

// stageMessage is the status line shown while stage runs on n items.
func stageMessage(stage pipeline.Stage, n int) string {
	switch stage {
	case pipeline.StagePrefetch:
		return fmt.Sprintf("Fetching %d %s...", n, plural(n, "image"))
	case pipeline.StageCompose:
		return fmt.Sprintf("Composing %d %s...", n, plural(n, "step"))
	case pipeline.StageSave:
		return fmt.Sprintf("Saving %d %s...", n, plural(n, "slide"))
	}
	return "Working..."
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// Stage switches the status line to stage. It has the signature of
// [pipeline.Options.OnStage].
func (s *deckSpinner) Stage(stage pipeline.Stage, n int) {
	s.mu.Lock()
	s.message = stageMessage(stage, n)
	s.mu.Unlock()
}

// Message returns the current status line.
func (s *deckSpinner) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// Start begins drawing.
func (s *deckSpinner) Start() {
	go func() {
		defer close(s.exited)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			s.draw(spinnerFrames[i%len(spinnerFrames)])
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func (s *deckSpinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := frame + " " + s.message
	s.width = max(s.width, len(line))
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
}

// Stop ends the animation and clears the line. It may be called more than
// once.
func (s *deckSpinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.exited
		s.mu.Lock()
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
		s.mu.Unlock()
	})
}

// Fail stops the spinner and reports the stage that was running.
func (s *deckSpinner) Fail() {
	msg := strings.TrimSuffix(s.Message(), "...")
	s.Stop()
	printError("%s failed", msg)
}
