package gcsim

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

type Position struct {
	X, Y, Z, A, B float64
}

func (pos Position) String() string {
	return fmt.Sprintf("{x: %s, y: %s, z: %s, a: %s, b: %s}", formatNumber(pos.X),
		formatNumber(pos.Y), formatNumber(pos.Z), formatNumber(pos.A), formatNumber(pos.B))
}

var (
	zeroPosition = Position{}
)

type EffectKind byte

const (
	SetVariable EffectKind = iota + 1
	SyncRequest
	CallSubroutine
	ReturnSubroutine
)

func (ek EffectKind) String() string {
	switch ek {
	case SetVariable:
		return "set-variable"
	case SyncRequest:
		return "sync-request"
	case CallSubroutine:
		return "call-subroutine"
	case ReturnSubroutine:
		return "return-subroutine"
	}
	return fmt.Sprintf("effect(%d)", ek)
}

type SyncKind string

const (
	Wait SyncKind = "WAIT"
)

// Effect is a side-effect of a parsed line; which fields are used depends on Kind.
type Effect struct {
	Kind  EffectKind
	Index int      // SetVariable
	Value float64  // SetVariable
	Sync  SyncKind // SyncRequest
	ID    string   // CallSubroutine
}

// Block is everything a single line contributes: the resulting position, its effects, and
// the modal words the motion compiler needs.
type Block struct {
	Pos        Position
	Effects    []Effect
	Feed       float64
	HasFeed    bool
	Spindle    float64
	HasSpindle bool
	Moved      bool // X, Y, or Z supplied
	Comment    bool
}

const (
	unknownProgram = "?"
)

var (
	assignRE = regexp.MustCompile(`#(\d+)\s*=\s*([-+]?(?:\d+\.?\d*|\.\d+))`)
)

// IsComment reports whether line is blank or starts with ; or (.
func IsComment(line string) bool {
	s := strings.TrimSpace(line)
	return s == "" || s[0] == ';' || s[0] == '('
}

// ParseLine applies line to prior and returns the new position and the line's effects. It
// never fails: malformed numbers become 0 and unrecognized words are ignored.
func ParseLine(line string, prior Position) (Position, []Effect) {
	blk := Parse(line, prior)
	return blk.Pos, blk.Effects
}

func Parse(line string, prior Position) Block {
	blk := Block{Pos: prior}
	if IsComment(line) {
		blk.Comment = true
		return blk
	}

	s := stripComment(strings.ToUpper(line))
	tokens := words(s)

	if strings.Contains(s, "#") {
		if m := assignRE.FindStringSubmatch(s); m != nil {
			idx, err := strconv.Atoi(m[1])
			if err == nil {
				blk.Effects = append(blk.Effects,
					Effect{Kind: SetVariable, Index: idx, Value: parseNumber(m[2])})
			}
		}
	}

	// A WAIT line is a rendezvous only; motion words on it are ignored.
	wait := hasToken(tokens, "WAIT")
	if wait {
		blk.Effects = append(blk.Effects, Effect{Kind: SyncRequest, Sync: Wait})
	}

	if m98 := indexToken(tokens, "M98"); m98 >= 0 {
		id := unknownProgram
		for _, tok := range tokens[m98+1:] {
			if tok[0] == 'P' {
				if allDigits(tok[1:]) {
					id = tok[1:]
				}
				break
			}
		}
		blk.Effects = append(blk.Effects, Effect{Kind: CallSubroutine, ID: id})
	}

	if hasToken(tokens, "M99") {
		blk.Effects = append(blk.Effects, Effect{Kind: ReturnSubroutine})
	}

	for _, tok := range tokens {
		switch tok[0] {
		case 'X':
			if !wait {
				blk.Pos.X = parseNumber(tok[1:])
				blk.Moved = true
			}
		case 'Y':
			if !wait {
				blk.Pos.Y = parseNumber(tok[1:])
				blk.Moved = true
			}
		case 'Z':
			if !wait {
				blk.Pos.Z = parseNumber(tok[1:])
				blk.Moved = true
			}
		case 'A':
			if !wait {
				blk.Pos.A = parseNumber(tok[1:])
			}
		case 'B':
			if !wait {
				blk.Pos.B = parseNumber(tok[1:])
			}
		case 'F':
			blk.Feed = parseNumber(tok[1:])
			blk.HasFeed = true
		case 'S':
			blk.Spindle = parseNumber(tok[1:])
			blk.HasSpindle = true
		}
	}

	return blk
}

// stripComment drops a trailing ; or ( comment; s must already be known not to be a
// comment line.
func stripComment(s string) string {
	if i := strings.IndexAny(s, ";("); i >= 0 {
		return s[:i]
	}
	return s
}

// words splits an upper-cased line into letter and number words, with or without spaces
// between them: "N10 M98P100" is N10, M98, P100. A run of letters is kept whole, so WAIT is
// one word. Parameter references (#n) and anything else which is not a word are skipped.
func words(s string) []string {
	var tokens []string
	for idx := 0; idx < len(s); {
		ch := s[idx]
		if ch == '#' {
			idx += 1
			for idx < len(s) && isAlnum(s[idx]) {
				idx += 1
			}
			continue
		}
		if !isLetter(ch) {
			idx += 1
			continue
		}

		start := idx
		for idx < len(s) && isLetter(s[idx]) {
			idx += 1
		}
		if idx-start == 1 {
			for idx < len(s) && isNumberByte(s[idx]) {
				idx += 1
			}
		} else {
			for idx < len(s) && isAlnum(s[idx]) {
				idx += 1
			}
		}
		tokens = append(tokens, s[start:idx])
	}
	return tokens
}

func isLetter(ch byte) bool {
	return ch >= 'A' && ch <= 'Z'
}

func isAlnum(ch byte) bool {
	return isLetter(ch) || (ch >= '0' && ch <= '9')
}

func isNumberByte(ch byte) bool {
	return (ch >= '0' && ch <= '9') || ch == '.' || ch == '-' || ch == '+'
}

func indexToken(tokens []string, want string) int {
	for idx, tok := range tokens {
		if tok == want {
			return idx
		}
	}
	return -1
}

func hasToken(tokens []string, want string) bool {
	return indexToken(tokens, want) >= 0
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i += 1 {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

func parseNumber(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
