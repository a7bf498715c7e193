package session

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
)

// NoticeStore carries notices across a redirect as gorilla flashes.
type NoticeStore struct {
	store sessions.Store
}

// NewNoticeStore returns a NoticeStore over store.
func NewNoticeStore(store sessions.Store) *NoticeStore {
	return &NoticeStore{store: store}
}

// Pop returns and removes the flashes of r. The removal is written by Put.
func (n *NoticeStore) Pop(r *http.Request) []Notice {
	s, err := n.store.Get(r, NoticesName)
	if err != nil {
		return nil
	}
	var out []Notice
	for _, f := range s.Flashes() {
		raw, ok := f.(string)
		if !ok {
			continue
		}
		var nt Notice
		if json.Unmarshal([]byte(raw), &nt) == nil && nt.Text != "" {
			out = append(out, nt)
		}
	}
	return out
}

// Put replaces the stored flashes with notices.
func (n *NoticeStore) Put(w http.ResponseWriter, r *http.Request, notices []Notice) error {
	s, _ := n.store.Get(r, NoticesName)
	s.Flashes()
	for _, nt := range notices {
		b, err := json.Marshal(nt)
		if err != nil {
			return fmt.Errorf("session: encode notice: %w", err)
		}
		s.AddFlash(string(b))
	}
	if err := s.Save(r, w); err != nil {
		return fmt.Errorf("session: write notices: %w", err)
	}
	return nil
}
