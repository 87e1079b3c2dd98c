package gcsim

import (
	"math"
	"reflect"
	"testing"
	"time"
)

func TestCompile(t *testing.T) {
	segs := Compile("G0 X10\n; note\nG1 Y5 F600\nS1200\nX0 Z-1\nWAIT X99")

	want := []Segment{
		{Line: 0, Pos: Position{X: 10}, Moved: true},
		{Line: 1, Pos: Position{X: 10}, Comment: true},
		{Line: 2, Pos: Position{X: 10, Y: 5}, Feed: 600, Moved: true},
		{Line: 3, Pos: Position{X: 10, Y: 5}, Feed: 600, Spindle: 1200},
		{Line: 4, Pos: Position{X: 0, Y: 5, Z: -1}, Feed: 600, Spindle: 1200, Moved: true},
		{Line: 5, Pos: Position{X: 0, Y: 5, Z: -1}, Feed: 600, Spindle: 1200},
	}
	if !reflect.DeepEqual(segs, want) {
		t.Errorf("Compile() got\n%+v\nwant\n%+v", segs, want)
	}

	if segs := Compile(""); len(segs) != 0 {
		t.Errorf("Compile(\"\") got %d segments", len(segs))
	}
}

func TestMoveTime(t *testing.T) {
	cases := []struct {
		from, to Segment
		secs     float64
	}{
		{from: Segment{}, to: Segment{Pos: Position{X: 10}, Feed: 600}, secs: 1.0},
		{from: Segment{}, to: Segment{Pos: Position{X: 3, Y: 4}, Feed: 60}, secs: 5.0},
		{from: Segment{}, to: Segment{Pos: Position{Z: 1000}}, secs: 60.0},
		{from: Segment{}, to: Segment{Feed: 600}, secs: MinMoveTime},
		{from: Segment{}, to: Segment{Pos: Position{A: 90}, Feed: 600}, secs: MinMoveTime},
		{from: Segment{}, to: Segment{Pos: Position{X: 0.01}, Feed: 600}, secs: 0.001},
		{from: Segment{Pos: Position{X: 5}}, to: Segment{Pos: Position{X: 5}, Spindle: 1200}, secs: MinMoveTime},
	}

	for _, c := range cases {
		if secs := MoveTime(c.from, c.to); math.Abs(secs-c.secs) > 1e-9 {
			t.Errorf("MoveTime(%s, %s) got %v want %v", c.from.Pos, c.to.Pos, secs, c.secs)
		}
	}
}

func TestInterpolatorTick(t *testing.T) {
	ip := NewInterpolator(Compile("G1 X0 F600\n(comment)\nX10\nX10\nX20"))

	fr := ip.Tick(500 * time.Millisecond)
	if fr.Pos != (Position{}) || fr.Advance || ip.Progress() != 0 {
		t.Errorf("Tick() while idle got %+v", fr)
	}

	ip.Play()
	if ip.State() != Playing {
		t.Fatalf("Play() state got %s", ip.State())
	}

	fr = ip.Tick(500 * time.Millisecond)
	if fr.Next != 2 || fr.Advance || fr.Pos != (Position{X: 5}) {
		t.Errorf("Tick(500ms) got %+v want halfway to line 2", fr)
	}
	if ip.Position() != (Position{X: 5}) {
		t.Errorf("Position() got %s want {x: 5}", ip.Position())
	}

	fr = ip.Tick(500 * time.Millisecond)
	if !fr.Advance || fr.Next != 2 || fr.Pos != (Position{X: 10}) {
		t.Errorf("Tick(500ms) got %+v want advance to line 2", fr)
	}
	if ip.Line() != 0 || ip.Progress() != 0 {
		t.Errorf("Tick() moved its own line: line %d progress %v", ip.Line(), ip.Progress())
	}

	ip.SetLine(fr.Next)
	fr = ip.Tick(60 * time.Millisecond)
	if fr.Next != 3 || fr.Advance || fr.Pos != (Position{X: 10}) {
		t.Errorf("zero-length move got %+v", fr)
	}
	fr = ip.Tick(60 * time.Millisecond)
	if !fr.Advance || fr.Next != 3 {
		t.Errorf("zero-length move after MinMoveTime got %+v want advance", fr)
	}

	ip.SetLine(4)
	fr = ip.Tick(time.Second)
	if fr.Advance || fr.Next != -1 || ip.State() != Paused {
		t.Errorf("Tick() at end got %+v state %s", fr, ip.State())
	}
	if fr.Pos != (Position{X: 20}) {
		t.Errorf("Tick() at end got %s want {x: 20}", fr.Pos)
	}
}

func TestInterpolatorPauseStop(t *testing.T) {
	ip := NewInterpolator(Compile("X0 F600\nX10\nX20"))
	ip.Play()
	ip.Tick(250 * time.Millisecond)

	ip.Pause()
	if ip.State() != Paused {
		t.Errorf("Pause() state got %s", ip.State())
	}
	fr := ip.Tick(time.Second)
	if fr.Pos != (Position{}) || ip.Progress() != 0.25 {
		t.Errorf("Tick() while paused got %+v progress %v", fr, ip.Progress())
	}

	ip.Play()
	fr = ip.Tick(250 * time.Millisecond)
	if fr.Pos != (Position{X: 5}) {
		t.Errorf("Tick() after resume got %s want {x: 5}", fr.Pos)
	}

	ip.SetLine(1)
	ip.Stop()
	if ip.State() != Stopped || ip.Line() != 0 || ip.Progress() != 0 {
		t.Errorf("Stop() got state %s line %d progress %v", ip.State(), ip.Line(), ip.Progress())
	}
}

func TestInterpolatorSpeed(t *testing.T) {
	ip := NewInterpolator(Compile("X0 F600\nX10"))
	ip.SetSpeed(2)
	ip.SetSpeed(0)
	ip.Play()

	fr := ip.Tick(250 * time.Millisecond)
	if fr.Pos != (Position{X: 5}) {
		t.Errorf("Tick(250ms) at 2x got %s want {x: 5}", fr.Pos)
	}
}

func TestInterpolatorPhase(t *testing.T) {
	ip := NewInterpolator(Compile("S60 F600\nX100"))
	ip.Play()

	fr := ip.Tick(250 * time.Millisecond)
	if math.Abs(fr.Phase-math.Pi/2) > 1e-9 {
		t.Errorf("phase after 250ms at 60rpm got %v want pi/2", fr.Phase)
	}
	fr = ip.Tick(time.Second)
	if math.Abs(fr.Phase-math.Pi/2) > 1e-9 {
		t.Errorf("phase after a full turn got %v want pi/2", fr.Phase)
	}

	ip = NewInterpolator(Compile("F600\nX100"))
	ip.Play()
	if fr := ip.Tick(time.Second); fr.Phase != 0 {
		t.Errorf("phase without spindle got %v", fr.Phase)
	}
}

func TestInterpolatorEmpty(t *testing.T) {
	ip := NewInterpolator(nil)
	ip.Play()
	if ip.State() != Idle {
		t.Errorf("Play() with no segments got %s", ip.State())
	}
	if fr := ip.Tick(time.Second); fr.Pos != (Position{}) || fr.Next != -1 {
		t.Errorf("Tick() with no segments got %+v", fr)
	}
}
