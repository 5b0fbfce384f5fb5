package http

import (
	"strings"

	"fintrack/internal/edit"
)

// sanitizeInput drops control characters other than tab and newlines and
// trims surrounding whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// rowStateView is the wire form of an edit.RowState.
type rowStateView struct {
	ID      int64       `json:"id"`
	State   string      `json:"state"`
	Draft   *edit.Draft `json:"draft,omitempty"`
	Message string      `json:"message,omitempty"`
}

func viewRowState(id int64, st edit.RowState) rowStateView {
	v := rowStateView{ID: id, State: st.Name()}
	switch s := st.(type) {
	case edit.Editing:
		d := s.Draft
		v.Draft = &d
	case edit.Invalid:
		d := s.Draft
		v.Draft = &d
		v.Message = s.Message
	}
	return v
}
