package session

const (
	LabelResize   = "Resize"
	LabelResizing = "Resizing..."
)

// View is what the resizer card renders for the current state.
type View struct {
	Phase         Phase
	ImageName     string
	DeleteVisible bool
	InputsEnabled bool
	Width         string
	Height        string

	FooterVisible bool
	SubmitVisible bool
	SubmitEnabled bool
	SubmitLabel   string
	ResetVisible  bool
	DownloadHref  string
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{Phase: s.state.phase()}

	h, ok := held(s.state)
	if !ok {
		return v
	}

	v.ImageName = h.image.Name
	v.DeleteVisible = true
	v.InputsEnabled = true
	v.Width = h.dims.Width
	v.Height = h.dims.Height
	v.FooterVisible = true

	switch st := s.state.(type) {
	case holdingState:
		v.SubmitVisible = true
		v.SubmitEnabled = true
		v.SubmitLabel = LabelResize
	case submittingState:
		v.SubmitVisible = true
		v.SubmitLabel = LabelResizing
	case resizedState:
		v.ResetVisible = true
		v.DownloadHref = st.result
	}

	return v
}
