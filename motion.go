package gcsim

import (
	"fmt"
	"math"
	"time"
)

const (
	DefaultFeed = 1000.0 // mm/min, used until the program sets F
	MinMoveTime = 0.1    // seconds; time taken by a line which does not move the tool
)

// Segment is the modal state after one line: where the tool is and the feed and spindle
// speed in effect.
type Segment struct {
	Line    int
	Pos     Position
	Feed    float64 // mm/min; 0 until an F word
	Spindle float64 // rpm; 0 until an S word
	Comment bool
	Moved   bool // the line gave X, Y, or Z
}

// Compile turns a program into one segment per line, carrying position, feed, and spindle
// speed forward across lines which do not set them.
func Compile(text string) []Segment {
	return CompileProgram(NewProgram(text))
}

func CompileProgram(prog *Program) []Segment {
	segs := make([]Segment, 0, prog.Len())
	pos := zeroPosition
	var feed, spindle float64
	for n, line := range prog.lines {
		blk := Parse(line, pos)
		if blk.HasFeed {
			feed = blk.Feed
		}
		if blk.HasSpindle {
			spindle = blk.Spindle
		}
		pos = blk.Pos
		segs = append(segs, Segment{
			Line:    n,
			Pos:     pos,
			Feed:    feed,
			Spindle: spindle,
			Comment: blk.Comment,
			Moved:   blk.Moved,
		})
	}
	return segs
}

func distance(pos1, pos2 Position) float64 {
	dx := pos2.X - pos1.X
	dy := pos2.Y - pos1.Y
	dz := pos2.Z - pos1.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func lerp(pos1, pos2 Position, t float64) Position {
	return Position{
		X: pos1.X + (pos2.X-pos1.X)*t,
		Y: pos1.Y + (pos2.Y-pos1.Y)*t,
		Z: pos1.Z + (pos2.Z-pos1.Z)*t,
		A: pos1.A + (pos2.A-pos1.A)*t,
		B: pos1.B + (pos2.B-pos1.B)*t,
	}
}

// MoveTime is how long, in seconds, the move into to takes at to's feed.
func MoveTime(from, to Segment) float64 {
	feed := to.Feed
	if feed <= 0 {
		feed = DefaultFeed
	}
	dist := distance(from.Pos, to.Pos)
	if dist == 0 {
		return MinMoveTime
	}
	return dist / (feed / 60.0)
}

type PlayState byte

const (
	Idle PlayState = iota
	Playing
	Paused
	Stopped
)

func (ps PlayState) String() string {
	switch ps {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("state(%d)", ps)
}

// Frame is the output of one animation tick.
type Frame struct {
	Pos      Position
	Line     int
	Next     int // next non-comment line; -1 when there is none
	Progress float64
	Advance  bool // the move into Next is complete; the owner should SetLine(Next)
	Phase    float64
}

// Interpolator animates the tool between the segment at the current line and the next
// segment that is not a comment. It never changes its own line: Tick proposes an advance
// and whoever owns the line index commits it with SetLine.
type Interpolator struct {
	segs     []Segment
	line     int
	progress float64
	phase    float64 // spindle rotation, radians
	speed    float64
	state    PlayState
}

func NewInterpolator(segs []Segment) *Interpolator {
	return &Interpolator{
		segs:  segs,
		speed: 1.0,
		state: Idle,
	}
}

// SetSegments installs a recompiled program and restarts the current move.
func (ip *Interpolator) SetSegments(segs []Segment) {
	ip.segs = segs
	ip.progress = 0
}

func (ip *Interpolator) Segments() []Segment {
	return ip.segs
}

func (ip *Interpolator) Play() {
	if len(ip.segs) > 0 {
		ip.state = Playing
	}
}

func (ip *Interpolator) Pause() {
	if ip.state == Playing {
		ip.state = Paused
	}
}

// Stop drops the move in progress and rewinds to line 0.
func (ip *Interpolator) Stop() {
	ip.state = Stopped
	ip.progress = 0
	ip.line = 0
	ip.phase = 0
}

func (ip *Interpolator) SetLine(n int) {
	if n != ip.line {
		ip.line = n
		ip.progress = 0
	}
}

func (ip *Interpolator) SetSpeed(multiplier float64) {
	if multiplier > 0 {
		ip.speed = multiplier
	}
}

func (ip *Interpolator) State() PlayState {
	return ip.state
}

func (ip *Interpolator) Line() int {
	return ip.line
}

func (ip *Interpolator) Progress() float64 {
	return ip.progress
}

func (ip *Interpolator) Phase() float64 {
	return ip.phase
}

func (ip *Interpolator) current() Segment {
	if len(ip.segs) == 0 {
		return Segment{}
	}
	n := ip.line
	if n < 0 {
		n = 0
	} else if n >= len(ip.segs) {
		n = len(ip.segs) - 1
	}
	return ip.segs[n]
}

func (ip *Interpolator) next() int {
	start := ip.line + 1
	if start < 0 {
		start = 0
	}
	for n := start; n < len(ip.segs); n += 1 {
		if !ip.segs[n].Comment {
			return n
		}
	}
	return -1
}

// Position is the tool position as of the last tick.
func (ip *Interpolator) Position() Position {
	cur := ip.current()
	if ip.state != Playing {
		return cur.Pos
	}
	next := ip.next()
	if next < 0 {
		return cur.Pos
	}
	return lerp(cur.Pos, ip.segs[next].Pos, ip.progress)
}

func (ip *Interpolator) Tick(dt time.Duration) Frame {
	cur := ip.current()
	fr := Frame{
		Pos:      cur.Pos,
		Line:     ip.line,
		Next:     -1,
		Progress: ip.progress,
		Phase:    ip.phase,
	}
	if ip.state != Playing {
		return fr
	}

	secs := dt.Seconds() * ip.speed
	if cur.Spindle != 0 {
		ip.phase = math.Mod(ip.phase+cur.Spindle/60.0*2*math.Pi*secs, 2*math.Pi)
		if ip.phase < 0 {
			ip.phase += 2 * math.Pi
		}
		fr.Phase = ip.phase
	}

	next := ip.next()
	if next < 0 {
		// End of program: hold at the last segment.
		ip.state = Paused
		ip.progress = 0
		fr.Progress = 0
		return fr
	}
	fr.Next = next

	ip.progress += secs / MoveTime(cur, ip.segs[next])
	if ip.progress >= 1 {
		ip.progress = 0
		fr.Progress = 1
		fr.Advance = true
		fr.Pos = ip.segs[next].Pos
		return fr
	}

	fr.Progress = ip.progress
	fr.Pos = lerp(cur.Pos, ip.segs[next].Pos, ip.progress)
	return fr
}
