package engine

// Listener receives engine events. Callbacks run after the engine lock is
// released, so they may call back into the engine.
type Listener interface {
	StateChanged(state State)
	PositionChanged(ms int64)
	DurationChanged(ms int64)
}

// ListenerFuncs adapts optional functions to Listener.
type ListenerFuncs struct {
	OnState    func(state State)
	OnPosition func(ms int64)
	OnDuration func(ms int64)
}

func (f ListenerFuncs) StateChanged(state State) {
	if f.OnState != nil {
		f.OnState(state)
	}
}

func (f ListenerFuncs) PositionChanged(ms int64) {
	if f.OnPosition != nil {
		f.OnPosition(ms)
	}
}

func (f ListenerFuncs) DurationChanged(ms int64) {
	if f.OnDuration != nil {
		f.OnDuration(ms)
	}
}

// Listeners fans events out to several listeners in order.
type Listeners []Listener

func (l Listeners) StateChanged(state State) {
	for _, x := range l {
		x.StateChanged(state)
	}
}

func (l Listeners) PositionChanged(ms int64) {
	for _, x := range l {
		x.PositionChanged(ms)
	}
}

func (l Listeners) DurationChanged(ms int64) {
	for _, x := range l {
		x.DurationChanged(ms)
	}
}

func (e *Engine) later(fn func()) {
	e.outbox = append(e.outbox, fn)
}

func (e *Engine) emitState() {
	if l := e.deps.Listener; l != nil {
		state := e.state
		e.later(func() { l.StateChanged(state) })
	}
}

func (e *Engine) emitPosition(ms int64) {
	if l := e.deps.Listener; l != nil {
		e.later(func() { l.PositionChanged(ms) })
	}
}

func (e *Engine) emitDuration(ms int64) {
	if ms == e.lastDuration {
		return
	}
	e.lastDuration = ms
	if l := e.deps.Listener; l != nil {
		e.later(func() { l.DurationChanged(ms) })
	}
}
