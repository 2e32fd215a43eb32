package ui

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Spinner animates a status line while a job runs. The message can be
// replaced at any time from another goroutine.
type Spinner struct {
	out     io.Writer
	tty     bool
	frames  []string
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	message string
	printed string
	current int
}

// Default spinner frames (dots style)
var defaultFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewSpinner creates a spinner writing to out. When tty is false the
// spinner does not animate and prints each distinct message once.
func NewSpinner(out io.Writer, tty bool, message string) *Spinner {
	return &Spinner{
		out:     out,
		tty:     tty,
		frames:  defaultFrames,
		done:    make(chan struct{}),
		message: message,
	}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	if !s.tty {
		s.printPlain()
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-s.done:
				fmt.Fprint(s.out, "\r\033[K")
				return
			case <-ticker.C:
				s.mu.Lock()
				frame := s.frames[s.current%len(s.frames)]
				s.current++
				message := s.message
				s.mu.Unlock()
				fmt.Fprintf(s.out, "\r\033[K%s %s", Bold.Render(frame), message)
			}
		}
	}()
}

// SetMessage replaces the status message.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
	if !s.tty {
		s.printPlain()
	}
}

func (s *Spinner) printPlain() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.message == "" || s.message == s.printed {
		return
	}
	s.printed = s.message
	fmt.Fprintln(s.out, s.message)
}

// Stop stops the spinner and clears its line.
func (s *Spinner) Stop() {
	if !s.tty {
		return
	}
	close(s.done)
	s.wg.Wait()
}
