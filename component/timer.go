package component

// FrameTimer counts down simulation frames. It is idle until started, runs
// while unpaused with frames remaining, and expires on the first tick that
// finds nothing left. Expiry resets the timer before the completion hook
// runs, so the hook may restart the same timer for the next tick.
type FrameTimer struct {
	remaining int
	elapsed   int
	running   bool
	paused    bool

	onExpire func()
}

// NewCallbackTimer returns a timer that calls fn on expiry.
func NewCallbackTimer(fn func()) *FrameTimer {
	return &FrameTimer{onExpire: fn}
}

// Start (re)arms the timer. A running timer is expired first, firing its
// completion hook. A duration of 0 expires on the next tick.
func (t *FrameTimer) Start(duration int) {
	if t == nil {
		return
	}
	if t.running {
		t.expire()
	}
	if duration < 0 {
		duration = 0
	}
	t.remaining = duration
	t.elapsed = 0
	t.running = true
	t.paused = false
}

// Tick advances one frame and reports whether a frame was consumed.
func (t *FrameTimer) Tick() bool {
	if t == nil || !t.running || t.paused {
		return false
	}
	if t.remaining > 0 {
		t.remaining--
		t.elapsed++
		return true
	}
	t.expire()
	return false
}

func (t *FrameTimer) expire() {
	t.remaining = 0
	t.running = false
	t.paused = true
	if t.onExpire != nil {
		t.onExpire()
	}
}

// Stop returns the timer to idle without firing the completion hook.
func (t *FrameTimer) Stop() {
	if t == nil {
		return
	}
	t.remaining = 0
	t.running = false
	t.paused = true
}

func (t *FrameTimer) Pause() {
	if t != nil && t.running {
		t.paused = true
	}
}

func (t *FrameTimer) Resume() {
	if t != nil && t.running {
		t.paused = false
	}
}

// Running reports whether the timer is armed (paused or not).
func (t *FrameTimer) Running() bool { return t != nil && t.running }

// Paused reports whether the timer is held.
func (t *FrameTimer) Paused() bool { return t == nil || t.paused || !t.running }

func (t *FrameTimer) Remaining() int {
	if t == nil {
		return 0
	}
	return t.remaining
}

func (t *FrameTimer) Elapsed() int {
	if t == nil {
		return 0
	}
	return t.elapsed
}

// CtxCallbackTimer is a FrameTimer carrying a payload that is handed to the
// completion hook, e.g. which attacker caused a hitstun.
type CtxCallbackTimer[T any] struct {
	FrameTimer
	ctx      T
	onExpire func(T)
}

// NewCtxCallbackTimer returns a context-carrying timer calling fn on expiry.
func NewCtxCallbackTimer[T any](fn func(T)) *CtxCallbackTimer[T] {
	t := &CtxCallbackTimer[T]{onExpire: fn}
	t.FrameTimer.onExpire = func() {
		if t.onExpire != nil {
			t.onExpire(t.ctx)
		}
	}
	return t
}

// StartWith arms the timer with a new payload. If the timer was running, the
// previous payload is delivered to the hook before being replaced.
func (t *CtxCallbackTimer[T]) StartWith(duration int, ctx T) {
	if t == nil {
		return
	}
	if t.FrameTimer.running {
		t.FrameTimer.expire()
	}
	t.ctx = ctx
	t.FrameTimer.Start(duration)
}

// Context returns the current payload.
func (t *CtxCallbackTimer[T]) Context() T {
	return t.ctx
}
