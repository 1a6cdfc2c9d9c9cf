package state

// Phase is the lifecycle of the most recent asynchronous operation on an entity.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseFulfilled
	PhaseRejected
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseFulfilled:
		return "fulfilled"
	case PhaseRejected:
		return "rejected"
	default:
		return "idle"
	}
}

// Result is how an asynchronous operation resolved. Stale is set when a newer
// list response had already been applied and this one was discarded.
type Result[T any] struct {
	Value T
	Err   error
	Stale bool
}

func (r Result[T]) OK() bool {
	return r.Err == nil
}

// errorMessage is the text stored in the cache for a failed operation.
func errorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
