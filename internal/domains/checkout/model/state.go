package model

// State is a step of the checkout flow.
type State string

const (
	StateIdle           State = "idle"
	StateAddressLoading State = "address_loading"
	StateAddressReady   State = "address_ready"
	StateNoAddress      State = "no_address"
	StateSubmitting     State = "submitting"
	StateSuccess        State = "success"
	StateFailed         State = "failed"
)

var transitions = map[State][]State{
	StateIdle:           {StateAddressLoading},
	StateAddressLoading: {StateAddressReady, StateNoAddress},
	StateAddressReady:   {StateSubmitting},
	StateSubmitting:     {StateSuccess, StateFailed},
	StateFailed:         {StateAddressReady},
}

func (s State) CanTransitionTo(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal states have no outgoing transitions.
func (s State) Terminal() bool {
	return len(transitions[s]) == 0
}

// Flow tracks one checkout attempt and rejects illegal moves.
type Flow struct {
	state State
	path  []State
}

func NewFlow() *Flow {
	return &Flow{state: StateIdle, path: []State{StateIdle}}
}

func (f *Flow) State() State {
	return f.state
}

// Path returns every state visited so far, starting with idle.
func (f *Flow) Path() []State {
	return append([]State(nil), f.path...)
}

func (f *Flow) Transition(next State) error {
	if !f.state.CanTransitionTo(next) {
		return NewIllegalTransition(f.state, next)
	}
	f.state = next
	f.path = append(f.path, next)
	return nil
}
