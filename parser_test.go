package gcsim

import (
	"reflect"
	"testing"
)

func TestParseLine(t *testing.T) {
	prior := Position{X: 1, Y: 2, Z: 3, A: 4, B: 5}

	cases := []struct {
		s       string
		pos     Position
		effects []Effect
	}{
		{s: "X10 Y-5", pos: Position{X: 10, Y: -5, Z: 3, A: 4, B: 5}},
		{s: "G1 X10 Y-5 F600", pos: Position{X: 10, Y: -5, Z: 3, A: 4, B: 5}},
		{s: "g0 x1.5 z-.25", pos: Position{X: 1.5, Y: 2, Z: -0.25, A: 4, B: 5}},
		{s: "A90 B-45", pos: Position{X: 1, Y: 2, Z: 3, A: 90, B: -45}},
		{s: "X", pos: Position{X: 0, Y: 2, Z: 3, A: 4, B: 5}},
		{s: "Xabc Y7", pos: Position{X: 0, Y: 7, Z: 3, A: 4, B: 5}},
		{s: "XNaN", pos: Position{X: 0, Y: 2, Z: 3, A: 4, B: 5}},
		{s: "G1\tX2   Y3", pos: Position{X: 2, Y: 3, Z: 3, A: 4, B: 5}},
		{s: ";comment", pos: prior},
		{s: "  ; indented comment X99", pos: prior},
		{s: "(comment X99)", pos: prior},
		{s: "", pos: prior},
		{s: "   \t", pos: prior},
		{s: "G1 X9 (trailing X99)", pos: Position{X: 9, Y: 2, Z: 3, A: 4, B: 5}},
		{s: "G1 X9 ; M99", pos: Position{X: 9, Y: 2, Z: 3, A: 4, B: 5}},
		{
			s:       "#1 = 5",
			pos:     prior,
			effects: []Effect{{Kind: SetVariable, Index: 1, Value: 5}},
		},
		{
			s:       "#100=-2.5",
			pos:     prior,
			effects: []Effect{{Kind: SetVariable, Index: 100, Value: -2.5}},
		},
		{s: "#1 = [#2 + 1]", pos: prior},
		{s: "#X = 4", pos: prior},
		{
			s:       "WAIT",
			pos:     prior,
			effects: []Effect{{Kind: SyncRequest, Sync: Wait}},
		},
		{
			s:       "wait X50 Y50",
			pos:     prior,
			effects: []Effect{{Kind: SyncRequest, Sync: Wait}},
		},
		{s: "WAITING X1", pos: Position{X: 1, Y: 2, Z: 3, A: 4, B: 5}},
		{
			s:       "M98 P100",
			pos:     prior,
			effects: []Effect{{Kind: CallSubroutine, ID: "100"}},
		},
		{
			s:       "M98",
			pos:     prior,
			effects: []Effect{{Kind: CallSubroutine, ID: "?"}},
		},
		{
			s:       "M98 Pabc",
			pos:     prior,
			effects: []Effect{{Kind: CallSubroutine, ID: "?"}},
		},
		{
			s:       "M99",
			pos:     prior,
			effects: []Effect{{Kind: ReturnSubroutine}},
		},
		{
			s:       "M98P100",
			pos:     prior,
			effects: []Effect{{Kind: CallSubroutine, ID: "100"}},
		},
		{
			s:       "N10 M98P100",
			pos:     prior,
			effects: []Effect{{Kind: CallSubroutine, ID: "100"}},
		},
		{
			s:       "P7 m98 p2000 l3",
			pos:     prior,
			effects: []Effect{{Kind: CallSubroutine, ID: "2000"}},
		},
		{
			s:       "N20M99",
			pos:     prior,
			effects: []Effect{{Kind: ReturnSubroutine}},
		},
		{s: "G0X10Y-5Z2", pos: Position{X: 10, Y: -5, Z: 2, A: 4, B: 5}},
		{s: "M980 P1", pos: prior},
		{
			s:   "#3 = 7 X4",
			pos: Position{X: 4, Y: 2, Z: 3, A: 4, B: 5},
			effects: []Effect{
				{Kind: SetVariable, Index: 3, Value: 7},
			},
		},
	}

	for _, c := range cases {
		pos, effects := ParseLine(c.s, prior)
		if pos != c.pos {
			t.Errorf("ParseLine(%q) got %s want %s", c.s, pos, c.pos)
		}
		if !reflect.DeepEqual(effects, c.effects) {
			t.Errorf("ParseLine(%q) got effects %v want %v", c.s, effects, c.effects)
		}
	}
}

func TestParseLineAnyPrior(t *testing.T) {
	priors := []Position{
		{},
		{X: -1, Y: -1, Z: -1, A: -1, B: -1},
		{X: 100, Y: 200, Z: 300, A: 45, B: 90},
	}

	for _, prior := range priors {
		pos, effects := ParseLine("X10 Y-5", prior)
		want := Position{X: 10, Y: -5, Z: prior.Z, A: prior.A, B: prior.B}
		if pos != want {
			t.Errorf("ParseLine(X10 Y-5, %s) got %s want %s", prior, pos, want)
		}
		if len(effects) != 0 {
			t.Errorf("ParseLine(X10 Y-5, %s) got effects %v", prior, effects)
		}

		pos, effects = ParseLine(";comment", prior)
		if pos != prior || effects != nil {
			t.Errorf("ParseLine(;comment, %s) got %s %v", prior, pos, effects)
		}
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		s   string
		blk Block
	}{
		{
			s: "G1 X20 Y0 F600",
			blk: Block{Pos: Position{X: 20}, Feed: 600, HasFeed: true, Moved: true},
		},
		{
			s:   "M3 S1200",
			blk: Block{Spindle: 1200, HasSpindle: true},
		},
		{
			s:   "G0 A90",
			blk: Block{Pos: Position{A: 90}},
		},
		{
			s:   "G4 P1",
			blk: Block{},
		},
		{
			s:   "(tool change)",
			blk: Block{Comment: true},
		},
		{
			s: "WAIT Z5",
			blk: Block{
				Effects: []Effect{{Kind: SyncRequest, Sync: Wait}},
			},
		},
	}

	for _, c := range cases {
		blk := Parse(c.s, Position{})
		if !reflect.DeepEqual(blk, c.blk) {
			t.Errorf("Parse(%q) got %+v want %+v", c.s, blk, c.blk)
		}
	}
}

func TestIsComment(t *testing.T) {
	cases := []struct {
		s       string
		comment bool
	}{
		{s: "", comment: true},
		{s: "  ", comment: true},
		{s: "; x", comment: true},
		{s: "(x)", comment: true},
		{s: "\t( x", comment: true},
		{s: "G1 X1", comment: false},
		{s: "%", comment: false},
	}

	for _, c := range cases {
		if IsComment(c.s) != c.comment {
			t.Errorf("IsComment(%q) got %v want %v", c.s, !c.comment, c.comment)
		}
	}
}
