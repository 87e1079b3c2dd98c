package gcsim

// SyncPoint is a logged rendezvous request. It is advisory; nothing blocks on it.
type SyncPoint struct {
	Channel Channel
	Line    int
	Kind    SyncKind
}

// SyncTracker is an append-only log of sync points from either channel.
type SyncTracker struct {
	points []SyncPoint
}

func (st *SyncTracker) Append(sp SyncPoint) {
	st.points = append(st.points, sp)
}

func (st *SyncTracker) Points() []SyncPoint {
	return append([]SyncPoint(nil), st.points...)
}

func (st *SyncTracker) Len() int {
	return len(st.points)
}

// Pending returns the sync points logged by ch.
func (st *SyncTracker) Pending(ch Channel) []SyncPoint {
	var pts []SyncPoint
	for _, sp := range st.points {
		if sp.Channel == ch {
			pts = append(pts, sp)
		}
	}
	return pts
}

func (st *SyncTracker) Clear() {
	st.points = nil
}
