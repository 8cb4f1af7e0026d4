package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/manifoldco/promptui"
)

// Console is a terminal channel: speech is printed and capture reads one
// typed answer.
type Console struct {
	out  io.Writer
	read func() (string, error)

	mu         sync.Mutex
	capturing  bool
	transcript string
}

var _ Channel = (*Console)(nil)

// NewConsole prints to out (stdout when nil) and reads answers with a prompt.
func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	prompt := promptui.Prompt{Label: "Your answer (empty to skip)"}
	return &Console{out: out, read: prompt.Run}
}

// StartCapture reads the answer right away. Interrupting the prompt leaves an
// empty transcript.
func (c *Console) StartCapture(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	if c.capturing {
		c.mu.Unlock()
		return errors.New("capture already running")
	}
	c.capturing = true
	c.transcript = ""
	c.mu.Unlock()

	text, err := c.read()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil
		}
		c.mu.Lock()
		c.capturing = false
		c.mu.Unlock()
		return fmt.Errorf("read answer: %w", err)
	}

	c.mu.Lock()
	if c.capturing {
		c.transcript = strings.TrimSpace(text)
	}
	c.mu.Unlock()
	return nil
}

func (c *Console) StopCapture(_ context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.capturing {
		return "", nil
	}
	c.capturing = false
	text := c.transcript
	c.transcript = ""
	return text, nil
}

func (c *Console) Speak(text string) {
	fmt.Fprintf(c.out, "\nInterviewer: %s\n", text)
}
