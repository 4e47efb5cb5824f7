package render

// ClickHandler dispatches node clicks to exactly one callback depending on
// the view mode: promote in the radial view, navigate in the network view.
// The navigate callback receives the item id and label; turning that into a
// URL is the embedding page's job, never this package's.
type ClickHandler struct {
	Mode       Mode
	OnPromote  func(id string)
	OnNavigate func(id, label string)
}

// Click hit-tests the frame and dispatches. It reports whether a circle was
// hit, regardless of whether a callback was registered for the mode.
func (h *ClickHandler) Click(frame *Frame, x, y float64) bool {
	id, ok := frame.HitTest(x, y)
	if !ok {
		return false
	}

	switch h.Mode {
	case RadialMode:
		if h.OnPromote != nil {
			h.OnPromote(id)
		}
	default:
		if h.OnNavigate != nil {
			label := ""
			for _, c := range frame.Circles {
				if c.ID == id {
					label = c.Label
					break
				}
			}
			h.OnNavigate(id, label)
		}
	}
	return true
}
