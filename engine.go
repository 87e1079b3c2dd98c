package gcsim

import (
	"context"
	"fmt"
	"sort"
	"time"
)

type Breakpoint struct {
	Channel Channel
	Line    int
}

func (bp Breakpoint) String() string {
	return fmt.Sprintf("%s:%d", bp.Channel, bp.Line)
}

type channel struct {
	ch       Channel
	prog     *Program
	cursor   int
	pos      Position
	stack    CallStack
	breaks   map[int]struct{}
	stepOver int  // cursor whose breakpoint has been reported; -1 when none
	finished bool // EventFinished already sent
}

func (c *channel) done() bool {
	return c.cursor >= c.prog.Len()
}

// Engine steps the main and sub channels together. Variables and the sync log are shared;
// cursors, positions, call stacks, and breakpoints are per channel. Nothing in Engine
// returns an error: bad input degrades to zero values and no-ops.
type Engine struct {
	chans  [NumChannels]*channel
	params *Parameters
	syncs  SyncTracker
	events *Events
}

func NewEngine(main, sub *Program, events *Events) *Engine {
	if main == nil {
		main = NewProgram("")
	}
	if sub == nil {
		sub = NewProgram("")
	}
	eng := &Engine{
		params: NewParameters(),
		events: events,
	}
	for ch, prog := range [NumChannels]*Program{main, sub} {
		eng.chans[ch] = &channel{
			ch:       Channel(ch),
			prog:     prog,
			pos:      zeroPosition,
			breaks:   map[int]struct{}{},
			stepOver: -1,
		}
	}
	return eng
}

type StepResult struct {
	Breakpoints []Breakpoint // non-empty when the step was aborted
	Advanced    [NumChannels]bool
	Done        bool // both channels are finished
}

func (sr StepResult) Hit() bool {
	return len(sr.Breakpoints) > 0
}

// Step advances every unfinished channel by one line, main first. If either channel is
// sitting on a breakpoint that has not been reported yet, nothing advances and the hit is
// returned instead; the following Step steps over it.
func (eng *Engine) Step() StepResult {
	var sr StepResult
	for _, c := range eng.chans {
		if c.done() || c.cursor == c.stepOver {
			continue
		}
		if _, ok := c.breaks[c.cursor]; ok {
			sr.Breakpoints = append(sr.Breakpoints, Breakpoint{c.ch, c.cursor})
		}
	}

	if len(sr.Breakpoints) > 0 {
		for _, bp := range sr.Breakpoints {
			eng.chans[bp.Channel].stepOver = bp.Line
			eng.notify(Event{Type: EventBreakpoint, Channel: bp.Channel, Line: bp.Line})
		}
		sr.Done = eng.Done()
		return sr
	}

	for _, c := range eng.chans {
		if c.done() {
			continue
		}
		eng.execute(c)
		sr.Advanced[c.ch] = true
		if c.done() && !c.finished {
			c.finished = true
			eng.notify(Event{Type: EventFinished, Channel: c.ch, Line: c.cursor})
		}
	}

	sr.Done = eng.Done()
	return sr
}

func (eng *Engine) execute(c *channel) {
	line, _ := c.prog.Line(c.cursor)
	if !IsComment(line) {
		pos, effects := ParseLine(line, c.pos)
		for _, eff := range effects {
			eng.apply(c, eff)
		}
		c.pos = pos
	}

	c.cursor += 1
	c.stepOver = -1
}

func (eng *Engine) apply(c *channel, eff Effect) {
	switch eff.Kind {
	case SetVariable:
		eng.params.Set(eff.Index, eff.Value)
		eng.notify(Event{Type: EventVariable, Channel: c.ch, Line: c.cursor,
			Message: fmt.Sprintf("#%d = %s", eff.Index, formatNumber(eff.Value))})
	case SyncRequest:
		eng.syncs.Append(SyncPoint{Channel: c.ch, Line: c.cursor, Kind: eff.Sync})
		eng.notify(Event{Type: EventSync, Channel: c.ch, Line: c.cursor,
			Message: string(eff.Sync)})
	case CallSubroutine:
		cf := CallFrame{ID: eff.ID}
		c.stack.Push(cf)
		eng.notify(Event{Type: EventCall, Channel: c.ch, Line: c.cursor, Message: cf.String()})
	case ReturnSubroutine:
		if cf, ok := c.stack.Pop(); ok {
			eng.notify(Event{Type: EventReturn, Channel: c.ch, Line: c.cursor,
				Message: cf.String()})
		}
	}
}

func (eng *Engine) notify(ev Event) {
	eng.events.Notify(ev)
}

// ToggleBreakpoint flips the breakpoint at line and reports whether it is now set.
func (eng *Engine) ToggleBreakpoint(ch Channel, line int) bool {
	if !ch.Valid() {
		return false
	}
	c := eng.chans[ch]
	if _, ok := c.breaks[line]; ok {
		delete(c.breaks, line)
		return false
	}
	c.breaks[line] = struct{}{}
	return true
}

func (eng *Engine) HasBreakpoint(ch Channel, line int) bool {
	if !ch.Valid() {
		return false
	}
	_, ok := eng.chans[ch].breaks[line]
	return ok
}

func (eng *Engine) Breakpoints(ch Channel) []int {
	if !ch.Valid() {
		return nil
	}
	lines := make([]int, 0, len(eng.chans[ch].breaks))
	for line := range eng.chans[ch].breaks {
		lines = append(lines, line)
	}
	sort.Ints(lines)
	return lines
}

// Reset rewinds both channels to line 0 and the home position. Breakpoints, variables,
// call stacks, and the sync log are kept; see ClearState.
func (eng *Engine) Reset() {
	for _, c := range eng.chans {
		c.cursor = 0
		c.pos = zeroPosition
		c.stepOver = -1
		c.finished = false
	}
}

// ClearState empties the variables, call stacks, and sync log.
func (eng *Engine) ClearState() {
	eng.params.Clear()
	eng.syncs.Clear()
	for _, c := range eng.chans {
		c.stack.Clear()
	}
}

// SetProgram replaces the text of ch; the cursor is left where it is and a cursor past the
// new end just means the channel is finished.
func (eng *Engine) SetProgram(ch Channel, text string) {
	if !ch.Valid() {
		return
	}
	eng.chans[ch].prog.SetText(text)
}

func (eng *Engine) EditLine(ch Channel, line int, text string) error {
	if !ch.Valid() {
		return fmt.Errorf("edit line: invalid channel: %d", ch)
	}
	return eng.chans[ch].prog.SetLine(line, text)
}

func (eng *Engine) Program(ch Channel) *Program {
	if !ch.Valid() {
		return nil
	}
	return eng.chans[ch].prog
}

func (eng *Engine) Cursor(ch Channel) int {
	if !ch.Valid() {
		return 0
	}
	return eng.chans[ch].cursor
}

func (eng *Engine) Position(ch Channel) Position {
	if !ch.Valid() {
		return zeroPosition
	}
	return eng.chans[ch].pos
}

func (eng *Engine) Stack(ch Channel) []CallFrame {
	if !ch.Valid() {
		return nil
	}
	return eng.chans[ch].stack.Frames()
}

func (eng *Engine) StackDepth(ch Channel) int {
	if !ch.Valid() {
		return 0
	}
	return eng.chans[ch].stack.Depth()
}

// StackLabels is the display form of the call stack: MAIN when empty.
func (eng *Engine) StackLabels(ch Channel) []string {
	if !ch.Valid() {
		return nil
	}
	return eng.chans[ch].stack.Labels()
}

func (eng *Engine) Finished(ch Channel) bool {
	if !ch.Valid() {
		return true
	}
	return eng.chans[ch].done()
}

func (eng *Engine) Done() bool {
	for _, c := range eng.chans {
		if !c.done() {
			return false
		}
	}
	return true
}

func (eng *Engine) Variables() map[int]float64 {
	return eng.params.Snapshot()
}

func (eng *Engine) Variable(num int) (float64, bool) {
	return eng.params.Get(num)
}

func (eng *Engine) SyncPoints() []SyncPoint {
	return eng.syncs.Points()
}

type StopReason byte

const (
	StopFinished StopReason = iota
	StopBreakpoint
	StopCancelled
)

func (sr StopReason) String() string {
	switch sr {
	case StopFinished:
		return "finished"
	case StopBreakpoint:
		return "breakpoint"
	case StopCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("stop(%d)", sr)
}

type RunResult struct {
	Steps       int
	Reason      StopReason
	Breakpoints []Breakpoint
}

// StepInterval is the tick period for interval at the given speed multiplier.
func StepInterval(interval time.Duration, speed float64) time.Duration {
	if speed <= 0 {
		speed = 1.0
	}
	d := time.Duration(float64(interval) / speed)
	if d <= 0 {
		d = time.Nanosecond
	}
	return d
}

// Run steps once per tick until both channels finish, a breakpoint aborts a step, or ctx
// is done.
func (eng *Engine) Run(ctx context.Context, interval time.Duration, speed float64) RunResult {
	var res RunResult
	if eng.Done() {
		res.Reason = StopFinished
		return res
	}

	ticker := time.NewTicker(StepInterval(interval, speed))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			res.Reason = StopCancelled
			return res
		case <-ticker.C:
			sr := eng.Step()
			if sr.Hit() {
				res.Reason = StopBreakpoint
				res.Breakpoints = sr.Breakpoints
				return res
			}
			res.Steps += 1
			if sr.Done {
				res.Reason = StopFinished
				return res
			}
		}
	}
}
