package gcsim

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultInterval  = 500 * time.Millisecond
	DefaultFrameRate = time.Second / 60
)

// Action is a command from the user interface. Every change to a Session goes through
// Dispatch with one of the action types below.
type Action interface {
	apply(s *Session) error
}

type EditLine struct {
	Channel Channel
	Line    int
	Text    string
}

type LoadProgram struct {
	Channel Channel
	Text    string
}

type ToggleBreakpoint struct {
	Channel Channel
	Line    int
}

type StepOnce struct{}

// RunAll keeps stepping on the step interval until both channels finish or a breakpoint
// is hit.
type RunAll struct{}

// Play starts the motion animation.
type Play struct{}

// Pause halts both running and playing without rewinding.
type Pause struct{}

// Stop halts, then rewinds like Reset.
type Stop struct{}

type Reset struct{}

type ClearDebugState struct{}

type SetSpeed struct {
	Multiplier float64
}

// State is everything the panels and the viewport read.
type State struct {
	Session     string
	Tool        [NumChannels]Position
	Line        [NumChannels]int
	Stacks      [NumChannels][]string
	Variables   map[int]float64
	SyncPoints  []SyncPoint
	Breakpoints [NumChannels][]int
	Finished    [NumChannels]bool
	Phase       [NumChannels]float64
	Playing     bool
	Running     bool
	Speed       float64
}

type Options struct {
	Interval time.Duration // between steps while running, at speed 1
	Speed    float64
}

// Session owns an Engine, one Interpolator per channel, and the current line shown for
// each channel. It is not safe for concurrent use; Loop is the one goroutine which should
// touch it once it is running.
type Session struct {
	ID       string
	engine   *Engine
	motion   [NumChannels]*Interpolator
	lines    [NumChannels]int
	tool     [NumChannels]Position
	events   *Events
	interval time.Duration
	speed    float64
	running  bool
	playing  bool
}

func NewSession(main, sub string, events *Events, opts Options) *Session {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Speed <= 0 {
		opts.Speed = 1.0
	}

	s := &Session{
		ID:       uuid.New().String(),
		engine:   NewEngine(NewProgram(main), NewProgram(sub), events),
		events:   events,
		interval: opts.Interval,
		speed:    opts.Speed,
	}
	for ch := Channel(0); ch < NumChannels; ch += 1 {
		s.motion[ch] = NewInterpolator(CompileProgram(s.engine.Program(ch)))
		s.motion[ch].SetSpeed(s.speed)
	}
	return s
}

func (s *Session) Engine() *Engine {
	return s.engine
}

func (s *Session) Dispatch(a Action) error {
	if a == nil {
		return nil
	}
	err := a.apply(s)
	s.events.Notify(Event{Type: EventState, Message: fmt.Sprintf("%T", a)})
	return err
}

func (a EditLine) apply(s *Session) error {
	err := s.engine.EditLine(a.Channel, a.Line, a.Text)
	if err != nil {
		return err
	}
	s.recompile(a.Channel)
	return nil
}

func (a LoadProgram) apply(s *Session) error {
	if !a.Channel.Valid() {
		return fmt.Errorf("load program: invalid channel: %d", a.Channel)
	}
	s.engine.SetProgram(a.Channel, a.Text)
	s.recompile(a.Channel)
	return nil
}

func (a ToggleBreakpoint) apply(s *Session) error {
	if !a.Channel.Valid() {
		return fmt.Errorf("toggle breakpoint: invalid channel: %d", a.Channel)
	}
	s.engine.ToggleBreakpoint(a.Channel, a.Line)
	return nil
}

func (StepOnce) apply(s *Session) error {
	s.step()
	return nil
}

func (RunAll) apply(s *Session) error {
	s.running = !s.engine.Done()
	return nil
}

func (Play) apply(s *Session) error {
	s.playing = true
	for ch, ip := range s.motion {
		ip.SetLine(s.lines[ch])
		ip.Play()
	}
	return nil
}

func (Pause) apply(s *Session) error {
	s.running = false
	s.playing = false
	for _, ip := range s.motion {
		ip.Pause()
	}
	return nil
}

func (Stop) apply(s *Session) error {
	s.rewind()
	return nil
}

func (Reset) apply(s *Session) error {
	s.rewind()
	return nil
}

func (ClearDebugState) apply(s *Session) error {
	s.engine.ClearState()
	return nil
}

func (a SetSpeed) apply(s *Session) error {
	if a.Multiplier <= 0 {
		return fmt.Errorf("speed must be positive: %s", formatNumber(a.Multiplier))
	}
	s.speed = a.Multiplier
	for _, ip := range s.motion {
		ip.SetSpeed(a.Multiplier)
	}
	return nil
}

func (s *Session) recompile(ch Channel) {
	s.motion[ch].SetSegments(CompileProgram(s.engine.Program(ch)))
}

func (s *Session) rewind() {
	s.running = false
	s.playing = false
	s.engine.Reset()
	for ch, ip := range s.motion {
		ip.Stop()
		s.lines[ch] = 0
		s.tool[ch] = zeroPosition
	}
}

func (s *Session) step() StepResult {
	sr := s.engine.Step()
	s.follow()
	if sr.Hit() || sr.Done {
		s.running = false
	}
	return sr
}

// follow moves the displayed lines and tools to where the engine is.
func (s *Session) follow() {
	for ch, ip := range s.motion {
		s.lines[ch] = s.engine.Cursor(Channel(ch))
		s.tool[ch] = s.engine.Position(Channel(ch))
		ip.SetLine(s.lines[ch])
	}
}

// Run steps on the session's interval until both channels finish, a breakpoint is hit, or
// ctx is done; it blocks, so it is for callers which do not use Loop.
func (s *Session) Run(ctx context.Context) RunResult {
	s.running = true
	res := s.engine.Run(ctx, s.interval, s.speed)
	s.running = false
	s.follow()
	return res
}

// Frame advances the animation by dt. Advances proposed by the interpolators are committed
// here, the only place the displayed line moves outside of stepping.
func (s *Session) Frame(dt time.Duration) {
	if !s.playing {
		return
	}

	playing := false
	for ch, ip := range s.motion {
		fr := ip.Tick(dt)
		s.tool[ch] = fr.Pos
		if fr.Advance {
			s.lines[ch] = fr.Next
			ip.SetLine(fr.Next)
		}
		if ip.State() == Playing {
			playing = true
		}
	}
	s.playing = playing
}

func (s *Session) Snapshot() State {
	st := State{
		Session:    s.ID,
		Tool:       s.tool,
		Line:       s.lines,
		Variables:  s.engine.Variables(),
		SyncPoints: s.engine.SyncPoints(),
		Playing:    s.playing,
		Running:    s.running,
		Speed:      s.speed,
	}
	for ch := Channel(0); ch < NumChannels; ch += 1 {
		st.Stacks[ch] = s.engine.StackLabels(ch)
		st.Breakpoints[ch] = s.engine.Breakpoints(ch)
		st.Finished[ch] = s.engine.Finished(ch)
		st.Phase[ch] = s.motion[ch].Phase()
	}
	return st
}

// Loop runs the session until ctx is done or actions is closed. Actions, the step ticker
// (while running), and the frame ticker (while playing) are all handled on this goroutine;
// both tickers are stopped before Loop returns.
func (s *Session) Loop(ctx context.Context, actions <-chan Action, frameRate time.Duration) error {
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}

	var stepT, frameT *time.Ticker
	var stepC, frameC <-chan time.Time
	var stepEvery time.Duration
	var last time.Time
	defer func() {
		if stepT != nil {
			stepT.Stop()
		}
		if frameT != nil {
			frameT.Stop()
		}
	}()

	for {
		if s.running {
			d := StepInterval(s.interval, s.speed)
			if stepT == nil {
				stepT = time.NewTicker(d)
				stepC = stepT.C
			} else if d != stepEvery {
				stepT.Reset(d)
			}
			stepEvery = d
		} else if stepT != nil {
			stepT.Stop()
			stepT = nil
			stepC = nil
		}

		if s.playing {
			if frameT == nil {
				frameT = time.NewTicker(frameRate)
				frameC = frameT.C
				last = time.Now()
			}
		} else if frameT != nil {
			frameT.Stop()
			frameT = nil
			frameC = nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case a, ok := <-actions:
			if !ok {
				return nil
			}
			err := s.Dispatch(a)
			if err != nil {
				s.events.Notify(Event{Type: EventState, Message: err.Error()})
			}
		case <-stepC:
			s.step()
			s.events.Notify(Event{Type: EventState, Message: "step"})
		case now := <-frameC:
			s.Frame(now.Sub(last))
			last = now
			s.events.Notify(Event{Type: EventState, Message: "frame"})
		}
	}
}
