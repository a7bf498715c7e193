// Package session holds the rider's persisted authentication record for the duration of a
// request and writes it back before the response starts.
package session

import (
	"sync"
	"sync/atomic"

	"service-rider-web/internal/domain"
)

// NoticeKind is the visual class of a notice.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeInfo    NoticeKind = "info"
)

// Notice is a short message shown once and auto-dismissed.
type Notice struct {
	Kind NoticeKind `json:"kind"`
	Text string     `json:"text"`
}

// Handle is the per-request view of the session record. All mutations replace the whole record.
type Handle struct {
	mu       sync.Mutex
	rec      domain.Session
	dirty    bool
	incoming []Notice
	pending  []Notice
	expired  atomic.Bool
}

// NewHandle wraps a loaded record.
func NewHandle(rec domain.Session, incoming ...Notice) *Handle {
	return &Handle{rec: rec, incoming: incoming}
}

// Session returns a copy of the current record.
func (h *Handle) Session() domain.Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	return copyRecord(h.rec)
}

// Replace stores rec as the new record.
func (h *Handle) Replace(rec domain.Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rec = copyRecord(rec)
	h.dirty = true
}

// Clear stores the cleared record.
func (h *Handle) Clear() {
	h.Replace(domain.ClearedSession())
}

// Expire clears a token-holding record once. It reports whether this call did the clearing;
// concurrent and repeated calls return false.
func (h *Handle) Expire() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.rec.HasToken() {
		return false
	}
	if !h.expired.CompareAndSwap(false, true) {
		return false
	}
	h.rec = domain.ClearedSession()
	h.dirty = true
	return true
}

// Expired reports whether Expire cleared the record during this request.
func (h *Handle) Expired() bool {
	return h.expired.Load()
}

// Dirty reports whether the record changed since it was loaded.
func (h *Handle) Dirty() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dirty
}

// Notify queues a notice.
func (h *Handle) Notify(kind NoticeKind, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending = append(h.pending, Notice{Kind: kind, Text: text})
}

// TakeNotices returns every notice to show now. Taken notices are not carried to the next request.
func (h *Handle) TakeNotices() []Notice {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Notice, 0, len(h.incoming)+len(h.pending))
	out = append(out, h.incoming...)
	out = append(out, h.pending...)
	h.incoming, h.pending = nil, nil
	return out
}

// carry returns the notices still undelivered, to be shown by the next request.
func (h *Handle) carry() []Notice {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Notice, 0, len(h.incoming)+len(h.pending))
	out = append(out, h.incoming...)
	return append(out, h.pending...)
}

func copyRecord(rec domain.Session) domain.Session {
	if rec.User != nil {
		u := *rec.User
		rec.User = &u
	}
	return rec
}
