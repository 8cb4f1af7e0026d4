package audio

import (
	"context"
	"sync"
)

// Script replays prepared transcripts in order and records everything
// spoken. It backs unattended runs and tests.
type Script struct {
	mu        sync.Mutex
	answers   []string
	spoken    []string
	capturing bool
	current   string
	startErr  error
	stopCalls int
}

var _ Channel = (*Script)(nil)

// NewScript returns a channel that answers with the given transcripts.
func NewScript(answers ...string) *Script {
	return &Script{answers: append([]string(nil), answers...)}
}

// FailCapture makes every following StartCapture return err.
func (s *Script) FailCapture(err error) {
	s.mu.Lock()
	s.startErr = err
	s.mu.Unlock()
}

func (s *Script) StartCapture(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.startErr != nil {
		return s.startErr
	}
	s.capturing = true
	s.current = ""
	if len(s.answers) > 0 {
		s.current = s.answers[0]
		s.answers = s.answers[1:]
	}
	return nil
}

func (s *Script) StopCapture(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopCalls++
	if !s.capturing {
		return "", nil
	}
	s.capturing = false
	text := s.current
	s.current = ""
	return text, nil
}

func (s *Script) Speak(text string) {
	s.mu.Lock()
	s.spoken = append(s.spoken, text)
	s.mu.Unlock()
}

// Spoken returns everything passed to Speak.
func (s *Script) Spoken() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.spoken...)
}

// Capturing reports whether a capture is open.
func (s *Script) Capturing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capturing
}

// StopCalls counts StopCapture invocations.
func (s *Script) StopCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopCalls
}
