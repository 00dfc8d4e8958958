package session

import "github.com/ahmedsomaa/picloom/internal/entity"

type Phase int

const (
	Empty Phase = iota
	Holding
	Submitting
	Resized
)

func (p Phase) String() string {
	switch p {
	case Empty:
		return "empty"
	case Holding:
		return "holding"
	case Submitting:
		return "submitting"
	case Resized:
		return "resized"
	default:
		return "unknown"
	}
}

// state is one of emptyState, holdingState, submittingState or
// resizedState. Dimensions and results only exist next to an image.
type state interface {
	phase() Phase
}

type emptyState struct{}

type holdingState struct {
	image *entity.SelectedImage
	dims  entity.Dimensions
}

type submittingState struct {
	holdingState
	generation uint64
}

type resizedState struct {
	holdingState
	result string
}

func (emptyState) phase() Phase      { return Empty }
func (holdingState) phase() Phase    { return Holding }
func (submittingState) phase() Phase { return Submitting }
func (resizedState) phase() Phase    { return Resized }

// held returns the image part of any non-empty state.
func held(st state) (holdingState, bool) {
	switch st := st.(type) {
	case holdingState:
		return st, true
	case submittingState:
		return st.holdingState, true
	case resizedState:
		return st.holdingState, true
	default:
		return holdingState{}, false
	}
}

// withDims returns st with its dimensions replaced.
func withDims(st state, dims entity.Dimensions) state {
	switch st := st.(type) {
	case holdingState:
		st.dims = dims
		return st
	case submittingState:
		st.dims = dims
		return st
	case resizedState:
		st.dims = dims
		return st
	default:
		return st
	}
}
