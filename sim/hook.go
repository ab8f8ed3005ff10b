package sim

// HookPos identifies which of the scheduler's dispatch sites a hook is
// firing from.
type HookPos struct {
	Name string
}

// HookPosBeforeStep fires before the scheduler runs one unit of ready
// work — a resumed task or a timer callback.
var HookPosBeforeStep = &HookPos{Name: "BeforeStep"}

// HookPosAfterStep fires after the scheduler finishes running one unit
// of ready work.
var HookPosAfterStep = &HookPos{Name: "AfterStep"}

// HookPosTrigger fires whenever an event id is triggered on the
// scheduler, before its subscribers are notified.
var HookPosTrigger = &HookPos{Name: "Trigger"}

// HookCtx describes one hook firing. Only the fields matching Pos are
// meaningful: Event and Payload are set for HookPosTrigger, and both are
// their zero values for the step hooks, which carry no per-event data of
// their own — a step is "whatever the scheduler happened to run", not a
// typed event record.
type HookCtx struct {
	Pos     *HookPos
	Event   EventID
	Payload interface{}
}

// Hook observes the scheduler without altering its behavior. A Hook must
// not block or panic; either would stall or crash the run it is
// observing, since InvokeHook calls it synchronously from the scheduler's
// own goroutine.
type Hook interface {
	Func(ctx HookCtx)
}

// Hookable is implemented by anything a Hook can be attached to.
type Hookable interface {
	AcceptHook(hook Hook)
}

// HookableBase gives a Hookable its hook list and dispatch loop, so an
// embedder only needs to call InvokeHook at its own dispatch sites.
type HookableBase struct {
	hooks []Hook
}

// AcceptHook registers hook to be invoked by every future InvokeHook
// call. Hooks are expected to be registered before a run starts; nothing
// here supports removing one.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.hooks = append(h.hooks, hook)
}

// InvokeHook calls every registered hook with ctx, in registration
// order.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hooks {
		hook.Func(ctx)
	}
}
