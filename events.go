package gcsim

import (
	"fmt"
)

type EventType string

const (
	EventBreakpoint EventType = "breakpoint" // a step was aborted at a breakpoint
	EventFinished   EventType = "finished"   // a channel ran past its last line
	EventSync       EventType = "sync"       // a WAIT was logged
	EventCall       EventType = "call"       // M98 pushed a frame
	EventReturn     EventType = "return"     // M99 popped a frame
	EventVariable   EventType = "variable"   // #n was assigned
	EventState      EventType = "state"      // the session state changed
)

type Event struct {
	Type    EventType
	Channel Channel
	Line    int
	Message string
}

func (ev Event) String() string {
	if ev.Message == "" {
		return fmt.Sprintf("%s %s:%d", ev.Type, ev.Channel, ev.Line)
	}
	return fmt.Sprintf("%s %s:%d: %s", ev.Type, ev.Channel, ev.Line, ev.Message)
}

// Events delivers engine and session events to subscribers. One is created at startup and
// handed to everything that reports; callbacks run synchronously on the notifying goroutine.
type Events struct {
	subs   map[int]func(Event)
	nextID int
	closed bool
}

func NewEvents() *Events {
	return &Events{subs: map[int]func(Event){}}
}

// Subscribe registers fn and returns a function that removes it. Subscribing to a nil or
// closed Events does nothing.
func (evs *Events) Subscribe(fn func(Event)) func() {
	if evs == nil || evs.closed {
		return func() {}
	}
	id := evs.nextID
	evs.nextID += 1
	evs.subs[id] = fn
	return func() {
		delete(evs.subs, id)
	}
}

func (evs *Events) Notify(ev Event) {
	if evs == nil || evs.closed {
		return
	}

	// Deliver in subscription order so logs are deterministic.
	for id := 0; id < evs.nextID; id += 1 {
		if fn, ok := evs.subs[id]; ok {
			fn(ev)
		}
	}
}

// Close drops all subscribers; later notifications are ignored.
func (evs *Events) Close() {
	if evs == nil {
		return
	}
	evs.closed = true
	evs.subs = map[int]func(Event){}
}
