package session

import "github.com/mhpenta/remix"

// State is the user-visible lifecycle stage of a session.
type State int

const (
	// Idle means the inputs are not complete.
	Idle State = iota
	// Ready means both images and a prompt are present.
	Ready
	// Generating means a request is in flight.
	Generating
	// Succeeded means the last generation produced a result.
	Succeeded
	// Failed means the last generation produced an error.
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Ready:
		return "ready"
	case Generating:
		return "generating"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Snapshot is a consistent copy of a session's fields.
type Snapshot struct {
	ImageA     *remix.ImageInput
	ImageB     *remix.ImageInput
	Prompt     string
	Generating bool

	// Result and Error stay visible after the inputs are edited; only a
	// new generation or a reset clears them.
	Result *remix.GenerationResult
	Error  string

	// settled is true while Result/Error belong to the current inputs.
	settled bool
}

// Ready reports whether a generation would be accepted.
func (s Snapshot) Ready() bool {
	return s.ImageA != nil && s.ImageB != nil && remix.ValidatePrompt(s.Prompt) == nil && !s.Generating
}

// State derives the lifecycle stage. Editing an input after a generation
// moves the session back to Ready or Idle while the old outcome stays visible.
func (s Snapshot) State() State {
	switch {
	case s.Generating:
		return Generating
	case s.settled && s.Error != "":
		return Failed
	case s.settled && s.Result != nil:
		return Succeeded
	case s.Ready():
		return Ready
	default:
		return Idle
	}
}
