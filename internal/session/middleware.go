package session

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"sync"

	"service-rider-web/internal/domain"
	"service-rider-web/internal/logx"
)

// Middleware loads the record before any downstream handler runs and writes back the
// changed record and undelivered notices before the first byte of the response.
// A stored record that breaks the authentication invariant is treated as cleared.
func Middleware(p Persister, notices *NoticeStore, policy domain.AccessPolicy, logger logx.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logx.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec, err := p.Load(r)
			if err != nil {
				logger.Warn("session load failed", logx.Err(err))
				rec = domain.ClearedSession()
			}
			if !rec.ValidFor(policy) {
				rec = domain.ClearedSession()
			}

			var incoming []Notice
			if notices != nil {
				incoming = notices.Pop(r)
			}
			h := NewHandle(rec, incoming...)
			r = r.WithContext(WithHandle(r.Context(), h))

			fw := &flushWriter{ResponseWriter: w}
			fw.flush = func() {
				if h.Dirty() {
					if err := p.Save(w, r, h.Session()); err != nil {
						logger.Error("session save failed", logx.Err(err))
					}
				}
				if notices != nil {
					carry := h.carry()
					if len(carry) > 0 || len(incoming) > 0 {
						if err := notices.Put(w, r, carry); err != nil {
							logger.Error("notice save failed", logx.Err(err))
						}
					}
				}
			}

			next.ServeHTTP(fw, r)
			fw.flushOnce()
		})
	}
}

// flushWriter runs flush exactly once, before headers are sent.
type flushWriter struct {
	http.ResponseWriter
	once  sync.Once
	flush func()
}

func (w *flushWriter) flushOnce() { w.once.Do(w.flush) }

func (w *flushWriter) WriteHeader(code int) {
	w.flushOnce()
	w.ResponseWriter.WriteHeader(code)
}

func (w *flushWriter) Write(b []byte) (int, error) {
	w.flushOnce()
	return w.ResponseWriter.Write(b)
}

func (w *flushWriter) Flush() {
	w.flushOnce()
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack lets websocket upgrades pass through.
func (w *flushWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	w.flushOnce()
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("session: response writer does not support hijacking")
	}
	return hj.Hijack()
}

func (w *flushWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
