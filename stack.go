package gcsim

// CallFrame is one pending M98 call; ID is the P number or "?" when none was given.
type CallFrame struct {
	ID string
}

func (cf CallFrame) String() string {
	if cf.ID == unknownProgram {
		return unknownProgram
	}
	return "P" + cf.ID
}

const (
	mainLabel = "MAIN"
)

// CallStack records pending subroutine calls for display; it does not transfer control.
type CallStack struct {
	frames []CallFrame
}

func (cs *CallStack) Push(cf CallFrame) {
	cs.frames = append(cs.frames, cf)
}

// Pop removes the innermost frame; popping an empty stack does nothing.
func (cs *CallStack) Pop() (CallFrame, bool) {
	if len(cs.frames) == 0 {
		return CallFrame{}, false
	}
	cf := cs.frames[len(cs.frames)-1]
	cs.frames = cs.frames[:len(cs.frames)-1]
	return cf, true
}

func (cs *CallStack) Depth() int {
	return len(cs.frames)
}

func (cs *CallStack) Frames() []CallFrame {
	return append([]CallFrame(nil), cs.frames...)
}

// Labels returns the frames outermost first, or just MAIN when nothing is pending.
func (cs *CallStack) Labels() []string {
	if len(cs.frames) == 0 {
		return []string{mainLabel}
	}
	labels := make([]string, len(cs.frames))
	for i, cf := range cs.frames {
		labels[i] = cf.String()
	}
	return labels
}

func (cs *CallStack) Clear() {
	cs.frames = nil
}
