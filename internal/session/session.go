package session

import (
	"context"
	"io"
	"sync"

	"github.com/ahmedsomaa/picloom/internal/entity"
	"github.com/sirupsen/logrus"
)

const FailureTitle = "Image Resize Failed"

type Resizer interface {
	Resize(ctx context.Context, req entity.ResizeRequest) (string, error)
}

type Notifier interface {
	Error(title, description string)
}

// Session holds at most one image and drives it through
// Empty -> Holding -> Submitting -> Resized. It is safe for concurrent use;
// the resize call runs without the lock held.
type Session struct {
	mu         sync.Mutex
	state      state
	generation uint64

	resizer  Resizer
	notifier Notifier
}

func New(resizer Resizer, notifier Notifier) *Session {
	return &Session{
		state:    emptyState{},
		resizer:  resizer,
		notifier: notifier,
	}
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.phase()
}

// SelectFile stores img if no image is held. The first selection wins
// until Clear; nil is ignored.
func (s *Session) SelectFile(img *entity.SelectedImage) bool {
	if img == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.(emptyState); !ok {
		return false
	}

	s.state = holdingState{image: img}
	logrus.WithFields(logrus.Fields{
		"name":       img.Name,
		"media_type": img.MediaType,
		"bytes":      len(img.Data),
	}).Debug("Image selected")
	return true
}

// DragOver reports whether the default "open file" navigation must be
// suppressed so that a drop can be handled.
func (s *Session) DragOver() bool {
	return s.Phase() == Empty
}

func (s *Session) Drop(img *entity.SelectedImage) bool {
	return s.SelectFile(img)
}

// Clear discards the image, dimensions and result. An in-flight resize
// finishing afterwards is dropped.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.(submittingState); ok {
		s.generation++
	}
	s.state = emptyState{}
}

func (s *Session) Reset() {
	s.Clear()
}

func (s *Session) SetWidth(width string) error {
	return s.updateDims(func(d *entity.Dimensions) { d.Width = width })
}

func (s *Session) SetHeight(height string) error {
	return s.updateDims(func(d *entity.Dimensions) { d.Height = height })
}

func (s *Session) updateDims(update func(*entity.Dimensions)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := held(s.state)
	if !ok {
		return entity.ErrNoImage
	}

	dims := h.dims
	update(&dims)
	s.state = withDims(s.state, dims)
	return nil
}

func (s *Session) Dimensions() entity.Dimensions {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, _ := held(s.state)
	return h.dims
}

// Submit encodes the held image and sends it to the resizer once. Any
// failure is reported to the notifier, the session goes back to Holding
// with image and dimensions intact, and the error is returned.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	var holding holdingState
	switch st := s.state.(type) {
	case emptyState:
		s.mu.Unlock()
		return entity.ErrNoImage
	case submittingState:
		s.mu.Unlock()
		return entity.ErrSubmitInFlight
	case resizedState:
		s.mu.Unlock()
		return entity.ErrAlreadyResized
	case holdingState:
		holding = st
	}

	s.generation++
	generation := s.generation
	s.state = submittingState{holdingState: holding, generation: generation}
	s.mu.Unlock()

	req := entity.ResizeRequest{
		Dimensions: holding.dims,
		Image: entity.ImagePayload{
			Base64: entity.EncodeDataURI(holding.image.MediaType, holding.image.Data),
			Type:   holding.image.MediaType,
		},
	}

	img, err := s.resizer.Resize(ctx, req)

	s.mu.Lock()
	current, ok := s.state.(submittingState)
	if !ok || current.generation != generation {
		s.mu.Unlock()
		logrus.Debug("Resize finished after the image was cleared, result dropped")
		return entity.ErrDiscarded
	}

	if err != nil {
		s.state = current.holdingState
		s.mu.Unlock()

		s.notifier.Error(FailureTitle, err.Error())
		return err
	}

	s.state = resizedState{holdingState: current.holdingState, result: img}
	s.mu.Unlock()
	return nil
}

// Result returns the resized image's data URI while the session is Resized.
func (s *Session) Result() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.state.(resizedState); ok {
		return st.result, true
	}
	return "", false
}

// Download writes the decoded bytes of the resized image to w.
func (s *Session) Download(w io.Writer) error {
	result, ok := s.Result()
	if !ok {
		return entity.ErrNoResult
	}

	_, data, err := entity.DecodeDataURI(result)
	if err != nil {
		return err
	}

	_, err = w.Write(data)
	return err
}
