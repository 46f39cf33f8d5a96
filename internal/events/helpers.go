package events

// IsAgent reports whether e belongs to the Agent family.
func IsAgent(e Event) bool { return e.Family() == FamilyAgent }

// IsMarker reports whether e belongs to the Marker family.
func IsMarker(e Event) bool { return e.Family() == FamilyMarker }

// IsLoopPhase reports whether e belongs to the LoopPhase family.
func IsLoopPhase(e Event) bool { return e.Family() == FamilyLoopPhase }

// IsWatch reports whether e belongs to the Watch family.
func IsWatch(e Event) bool { return e.Family() == FamilyWatch }

// AsMarker type-asserts e to a Marker, returning ok=false if e is not a
// Marker family event.
func AsMarker(e Event) (Marker, bool) {
	m, ok := e.(Marker)
	return m, ok
}

// AsLoopPhase type-asserts e to a LoopPhaseEvent.
func AsLoopPhase(e Event) (LoopPhaseEvent, bool) {
	p, ok := e.(LoopPhaseEvent)
	return p, ok
}

// AsWatch type-asserts e to a WatchEvent.
func AsWatch(e Event) (WatchEvent, bool) {
	w, ok := e.(WatchEvent)
	return w, ok
}

// IsTerminal reports whether e is a terminal event of its own family:
// a terminal Marker or a terminal LoopPhaseEvent. Agent and Watch events
// are never terminal in this sense.
func IsTerminal(e Event) bool {
	if m, ok := AsMarker(e); ok {
		return IsTerminalMarker(m)
	}
	if p, ok := AsLoopPhase(e); ok {
		return IsTerminalLoopPhase(p)
	}
	return false
}
