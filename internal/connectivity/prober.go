package connectivity

import (
	"context"
	"net/http"
	"time"

	"service-rider-web/internal/logx"
)

// Classify maps a probe round trip onto an effective connection type.
func Classify(rtt time.Duration) string {
	switch {
	case rtt <= 270*time.Millisecond:
		return Type4G
	case rtt <= 1400*time.Millisecond:
		return Type3G
	case rtt <= 2000*time.Millisecond:
		return Type2G
	default:
		return TypeSlow2G
	}
}

// Prober periodically probes the rider API and feeds the Monitor.
type Prober struct {
	client   *http.Client
	url      string
	interval time.Duration
	monitor  *Monitor
	logger   logx.Logger
	now      func() time.Time
}

// NewProber creates a Prober for url. Any HTTP answer counts as reachable.
func NewProber(client *http.Client, url string, interval time.Duration, monitor *Monitor, logger logx.Logger) *Prober {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Prober{
		client:   client,
		url:      url,
		interval: interval,
		monitor:  monitor,
		logger:   logger.With(logx.String("component", "connectivity_prober")),
		now:      time.Now,
	}
}

// Run probes immediately and then every interval until ctx is done.
func (p *Prober) Run(ctx context.Context) error {
	t := time.NewTicker(p.interval)
	defer t.Stop()

	p.Probe(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			p.Probe(ctx)
		}
	}
}

// Probe performs one probe and records the result.
func (p *Prober) Probe(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		p.logger.Error("probe request build failed", logx.Err(err))
		return
	}

	start := p.now()
	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		if p.monitor.Status().Online {
			p.logger.Warn("rider api unreachable", logx.Err(err))
		}
		p.monitor.SetOnline(false)
		return
	}
	_ = resp.Body.Close()
	rtt := p.now().Sub(start)

	if !p.monitor.Status().Online {
		p.logger.Info("rider api reachable again", logx.Duration("rtt", rtt))
	}
	p.monitor.SetOnline(true)
	p.monitor.SetConnectionType(Classify(rtt))
}
