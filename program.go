package gcsim

import (
	"fmt"
	"strings"
)

type Channel int

const (
	Main Channel = iota // channel 1: main spindle
	Sub                 // channel 2: sub spindle

	NumChannels = 2
)

// Number is the one-based channel number shown to users.
func (ch Channel) Number() int {
	return int(ch) + 1
}

func (ch Channel) String() string {
	return fmt.Sprintf("CH%d", ch.Number())
}

func (ch Channel) Valid() bool {
	return ch >= 0 && ch < NumChannels
}

// ChannelFromNumber maps 1 and 2 to Main and Sub.
func ChannelFromNumber(n int) (Channel, error) {
	ch := Channel(n - 1)
	if !ch.Valid() {
		return 0, fmt.Errorf("expected channel 1 or 2: %d", n)
	}
	return ch, nil
}

// Program is one channel's text as an ordered list of raw lines.
type Program struct {
	lines []string
}

func NewProgram(text string) *Program {
	prog := &Program{}
	prog.SetText(text)
	return prog
}

// SetText replaces the whole program.
func (prog *Program) SetText(text string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if text == "" {
		prog.lines = nil
		return
	}
	prog.lines = strings.Split(text, "\n")
}

func (prog *Program) Text() string {
	return strings.Join(prog.lines, "\n")
}

func (prog *Program) Len() int {
	return len(prog.lines)
}

// Line returns line n, or "" and false when n is out of range.
func (prog *Program) Line(n int) (string, bool) {
	if n < 0 || n >= len(prog.lines) {
		return "", false
	}
	return prog.lines[n], true
}

// SetLine edits line n; setting the line just past the end appends a line.
func (prog *Program) SetLine(n int, text string) error {
	if n == len(prog.lines) {
		prog.lines = append(prog.lines, text)
		return nil
	}
	if n < 0 || n > len(prog.lines) {
		return fmt.Errorf("line %d out of range: program has %d lines", n, len(prog.lines))
	}
	prog.lines[n] = text
	return nil
}

func (prog *Program) Lines() []string {
	return append([]string(nil), prog.lines...)
}
