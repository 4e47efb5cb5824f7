package layout

// dragAlphaTarget keeps the system warm while a drag is in progress so the
// surrounding nodes keep reacting to the pinned one.
const dragAlphaTarget = 0.3

// DragStart pins the node with the given id at its current position and
// raises the alpha target. Returns false if the id is unknown.
func (s *Simulation) DragStart(id string) bool {
	n := s.nodeByID(id)
	if n == nil {
		return false
	}
	n.Pinned = true
	n.PinX, n.PinY = n.X, n.Y
	s.dragged[id] = true
	s.SetAlphaTarget(dragAlphaTarget)
	s.Reheat(dragAlphaTarget)
	return true
}

// DragMove updates the pinned position of an in-progress drag. Coordinates
// are clamped to the viewport so a pointer leaving the surface cannot park a
// node behind chrome.
func (s *Simulation) DragMove(id string, x, y float64) {
	if !s.dragged[id] {
		return
	}
	n := s.nodeByID(id)
	if n == nil {
		return
	}
	n.PinX = clamp(x, s.cfg.Margin, s.cfg.Width-s.cfg.Margin)
	n.PinY = clamp(y, s.cfg.Margin, s.cfg.Height-s.cfg.Margin)
}

// DragEnd releases a drag. The node re-joins free simulation; drags never
// leave a node permanently fixed.
func (s *Simulation) DragEnd(id string) {
	if !s.dragged[id] {
		return
	}
	delete(s.dragged, id)
	if n := s.nodeByID(id); n != nil {
		n.Pinned = false
	}
	if len(s.dragged) == 0 {
		s.SetAlphaTarget(0)
	}
}

// EndAllDrags releases every in-progress drag. Callers invoke this on
// pointer-up and pointer-cancel alike, so a pointer leaving the surface can
// never leave a drag stuck.
func (s *Simulation) EndAllDrags() {
	for id := range s.dragged {
		s.DragEnd(id)
	}
}

// nodeByID finds a node by id, or nil.
func (s *Simulation) nodeByID(id string) *Node {
	for _, n := range s.nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}
