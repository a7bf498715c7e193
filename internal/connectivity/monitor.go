// Package connectivity tracks whether the rider API is reachable and how fast the link is,
// and drives the offline / back-online banner.
package connectivity

import (
	"sync"
	"time"
)

// Banner is the connectivity banner currently shown.
type Banner string

const (
	BannerNone        Banner = "none"
	BannerOffline     Banner = "offline"
	BannerReconnected Banner = "reconnected"
)

// Effective connection types.
const (
	Type4G     = "4g"
	Type3G     = "3g"
	Type2G     = "2g"
	TypeSlow2G = "slow-2g"
)

// DefaultReconnectedFor is how long the back-online banner stays visible.
const DefaultReconnectedFor = 3 * time.Second

// Status is a snapshot of the monitor.
type Status struct {
	Online         bool   `json:"online"`
	ConnectionType string `json:"connectionType"`
	IsSlow         bool   `json:"isSlow"`
	IsFast         bool   `json:"isFast"`
	Banner         Banner `json:"banner"`
}

// Monitor is the online/offline state machine.
type Monitor struct {
	mu             sync.Mutex
	online         bool
	connType       string
	banner         Banner
	timer          Timer
	gen            uint64
	reconnectedFor time.Duration
	clock          Clock
	subs           map[chan Status]struct{}
	onChange       []func(Status)
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option { return func(m *Monitor) { m.clock = c } }

// WithReconnectedFor sets the back-online banner duration.
func WithReconnectedFor(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.reconnectedFor = d
		}
	}
}

// OnChange registers fn to run after every status change.
func OnChange(fn func(Status)) Option {
	return func(m *Monitor) { m.onChange = append(m.onChange, fn) }
}

// NewMonitor starts online with no banner.
func NewMonitor(opts ...Option) *Monitor {
	m := &Monitor{
		online:         true,
		banner:         BannerNone,
		reconnectedFor: DefaultReconnectedFor,
		clock:          RealClock(),
		subs:           make(map[chan Status]struct{}),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Status returns the current snapshot.
func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

func (m *Monitor) snapshot() Status {
	return Status{
		Online:         m.online,
		ConnectionType: m.connType,
		IsSlow:         m.connType == Type2G || m.connType == TypeSlow2G,
		IsFast:         m.connType == Type4G,
		Banner:         m.banner,
	}
}

// SetOnline records a reachability transition. Going offline shows the offline banner until
// reconnection; coming back shows the reconnected banner for the configured duration.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	m.gen++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	if online {
		m.banner = BannerReconnected
		gen := m.gen
		m.timer = m.clock.AfterFunc(m.reconnectedFor, func() { m.hideReconnected(gen) })
	} else {
		m.banner = BannerOffline
	}
	st := m.snapshot()
	m.mu.Unlock()

	m.publish(st)
}

func (m *Monitor) hideReconnected(gen uint64) {
	m.mu.Lock()
	if m.gen != gen || m.banner != BannerReconnected {
		m.mu.Unlock()
		return
	}
	m.banner = BannerNone
	m.timer = nil
	st := m.snapshot()
	m.mu.Unlock()

	m.publish(st)
}

// SetConnectionType records the effective connection type ("" when unknown).
func (m *Monitor) SetConnectionType(t string) {
	m.mu.Lock()
	if m.connType == t {
		m.mu.Unlock()
		return
	}
	m.connType = t
	st := m.snapshot()
	m.mu.Unlock()

	m.publish(st)
}

// Subscribe returns a channel receiving every status change and a cancel func.
// Slow subscribers miss intermediate states.
func (m *Monitor) Subscribe() (<-chan Status, func()) {
	ch := make(chan Status, 4)
	m.mu.Lock()
	m.subs[ch] = struct{}{}
	m.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, ch)
			m.mu.Unlock()
		})
	}
}

func (m *Monitor) publish(st Status) {
	m.mu.Lock()
	subs := make([]chan Status, 0, len(m.subs))
	for ch := range m.subs {
		subs = append(subs, ch)
	}
	hooks := m.onChange
	m.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- st:
		default:
		}
	}
	for _, fn := range hooks {
		fn(st)
	}
}
