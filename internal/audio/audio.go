package audio

import "context"

// Channel is the speech I/O used by an interview session.
//
// StopCapture must be safe to call repeatedly; calls after the first return
// an empty transcript. Speak never blocks the caller on playback.
type Channel interface {
	StartCapture(ctx context.Context) error
	StopCapture(ctx context.Context) (string, error)
	Speak(text string)
}
