package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// ErrInterrupted is returned when the user presses Ctrl-C at a prompt.
var ErrInterrupted = errors.New("interrupted")

// Prompter reads one answer per call. The label is shown before reading.
type Prompter interface {
	Prompt(label string) (string, error)
}

// Script is a Prompter that replays canned answers. It returns io.EOF once
// exhausted and records every label it was asked.
type Script struct {
	answers []string
	pos     int
	Asked   []string
}

// NewScript returns a Script answering with the given lines in order.
func NewScript(answers ...string) *Script {
	return &Script{answers: answers}
}

func (s *Script) Prompt(label string) (string, error) {
	s.Asked = append(s.Asked, label)
	if s.pos >= len(s.answers) {
		return "", io.EOF
	}
	a := s.answers[s.pos]
	s.pos++
	return a, nil
}

// Remaining reports how many answers have not been consumed.
func (s *Script) Remaining() int { return len(s.answers) - s.pos }

// LinePrompter reads newline-terminated answers from a plain reader (pipes, tests).
type LinePrompter struct {
	r *bufio.Reader
	w io.Writer
}

// NewLinePrompter prints labels to w and reads answers from r.
func NewLinePrompter(r io.Reader, w io.Writer) *LinePrompter {
	return &LinePrompter{r: bufio.NewReader(r), w: w}
}

func (p *LinePrompter) Prompt(label string) (string, error) {
	if label != "" {
		fmt.Fprint(p.w, label)
	}
	line, err := p.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Terminal is a readline-backed Prompter with persistent history.
type Terminal struct {
	rl *readline.Instance
}

// NewTerminal opens a readline instance; history may be empty to disable it.
func NewTerminal(history string, out io.Writer) (*Terminal, error) {
	cfg := &readline.Config{
		HistoryFile:     history,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	}
	if out != nil {
		cfg.Stdout = out
	}
	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}
	return &Terminal{rl: rl}, nil
}

func (t *Terminal) Prompt(label string) (string, error) {
	t.rl.SetPrompt(label)
	line, err := t.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", ErrInterrupted
	}
	if err != nil {
		return "", err
	}
	return line, nil
}

// Close releases the terminal.
func (t *Terminal) Close() error { return t.rl.Close() }
