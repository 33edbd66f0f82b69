// Package console prints status lines and numbered menus and collects answers
// through an injectable Prompter.
package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const (
	msgNotNumber     = "Invalid input. Please enter a number."
	msgInvalidChoice = "Invalid choice. Please try again!"
)

// Console is the interactive surface shared by every workflow step.
type Console struct {
	out io.Writer
	in  Prompter

	success lipgloss.Style
	failure lipgloss.Style
	info    lipgloss.Style
	notice  lipgloss.Style
}

// New builds a Console. With color disabled (or a non-terminal out) no escape
// sequences are written.
func New(out io.Writer, in Prompter, color bool) *Console {
	r := lipgloss.NewRenderer(out)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Console{
		out:     out,
		in:      in,
		success: r.NewStyle().Foreground(lipgloss.Color("42")),
		failure: r.NewStyle().Foreground(lipgloss.Color("196")),
		info:    r.NewStyle().Foreground(lipgloss.Color("39")),
		notice:  r.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

// Out returns the writer for free-form output (tables, reports).
func (c *Console) Out() io.Writer { return c.out }

func (c *Console) line(st lipgloss.Style, tag, format string, args ...any) {
	fmt.Fprintln(c.out, st.Render(tag+" "+fmt.Sprintf(format, args...)))
}

// Success prints a "[+]" line.
func (c *Console) Success(format string, args ...any) { c.line(c.success, "[+]", format, args...) }

// Failure prints a "[-]" line.
func (c *Console) Failure(format string, args ...any) { c.line(c.failure, "[-]", format, args...) }

// Info prints a "[*]" line.
func (c *Console) Info(format string, args ...any) { c.line(c.info, "[*]", format, args...) }

// Notice prints a "[!]" line.
func (c *Console) Notice(format string, args ...any) { c.line(c.notice, "[!]", format, args...) }

// Question prints a "[?]" line.
func (c *Console) Question(format string, args ...any) { c.line(c.notice, "[?]", format, args...) }

// Println writes an unstyled line.
func (c *Console) Println(a ...any) { fmt.Fprintln(c.out, a...) }

// List prints items as "[i] item", 1-based.
func (c *Console) List(items []string) {
	for i, it := range items {
		fmt.Fprintln(c.out, c.notice.Render(fmt.Sprintf("[%d] %s", i+1, it)))
	}
}

// Ask prompts once and returns the trimmed answer.
func (c *Console) Ask(label string) (string, error) {
	s, err := c.in.Prompt(label)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// Number prompts until the answer is an integer in [1, n].
func (c *Console) Number(label string, n int) (int, error) {
	for {
		s, err := c.Ask(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			c.Failure(msgNotNumber)
			continue
		}
		if v < 1 || v > n {
			c.Failure(msgInvalidChoice)
			continue
		}
		return v, nil
	}
}

// Choose lists choices and returns the 1-based selection. A non-empty title is
// printed above the list.
func (c *Console) Choose(title string, choices []string, label string) (int, error) {
	if title != "" {
		fmt.Fprintln(c.out)
		c.Info("%s", title)
	}
	c.List(choices)
	return c.Number(label, len(choices))
}

// Confirm asks a y/n question; anything but y/yes is no.
func (c *Console) Confirm(label string) (bool, error) {
	s, err := c.Ask(label)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(s) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
