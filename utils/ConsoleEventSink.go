package utils

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/reaandrew/s3hunter/core"
)

// ConsoleEventSink renders probe events as coloured lines. Writes from
// concurrent probes are serialised so lines never interleave.
type ConsoleEventSink struct {
	mu     sync.Mutex
	writer io.Writer

	found    *color.Color
	notFound *color.Color
	failure  *color.Color
	retry    *color.Color
	giveUp   *color.Color
}

func NewConsoleEventSink() *ConsoleEventSink {
	return NewConsoleEventSinkWithWriter(os.Stdout)
}

func NewConsoleEventSinkWithWriter(writer io.Writer) *ConsoleEventSink {
	return &ConsoleEventSink{
		writer:   writer,
		found:    color.New(color.FgGreen, color.Bold),
		notFound: color.New(color.FgRed),
		failure:  color.New(color.FgYellow),
		retry:    color.New(color.FgCyan),
		giveUp:   color.New(color.FgMagenta),
	}
}

func (s *ConsoleEventSink) Emit(event core.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprintln(s.writer, s.format(event))
}

func (s *ConsoleEventSink) format(event core.Event) string {
	switch event.Kind {
	case core.EventFound:
		signed := "unsigned"
		if event.Signed {
			signed = "signed"
		}
		return s.found.Sprintf("[FOUND] %s (%d) [%s]", event.URL, event.StatusCode, signed)
	case core.EventNotFound:
		return s.notFound.Sprintf("[NOT FOUND] %s (%d)", event.URL, event.StatusCode)
	case core.EventError:
		return s.failure.Sprintf("[ERROR] %s | %s: %v", event.URL, event.ErrorClass, event.Err)
	case core.EventRetry:
		return s.retry.Sprintf("[RETRY] %s (attempt %d/%d)", event.URL, event.Attempt, event.Retries)
	case core.EventGiveUp:
		return s.giveUp.Sprintf("[GIVE UP] %s after %d retries", event.URL, event.Retries)
	}
	return fmt.Sprintf("[%s] %s", event.Kind, event.URL)
}
