package engine

import "github.com/Tsinling0525/flowrun/model"

// readyStack is the LIFO of node ids waiting to execute.
type readyStack struct {
	ids []model.ID
}

func newReadyStack(initial []model.ID) *readyStack {
	return &readyStack{ids: append([]model.ID(nil), initial...)}
}

func (s *readyStack) push(id model.ID) { s.ids = append(s.ids, id) }

func (s *readyStack) pop() (model.ID, bool) {
	if len(s.ids) == 0 {
		return "", false
	}
	id := s.ids[len(s.ids)-1]
	s.ids = s.ids[:len(s.ids)-1]
	return id, true
}

func (s *readyStack) len() int { return len(s.ids) }
