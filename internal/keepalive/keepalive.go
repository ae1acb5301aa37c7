// Package keepalive periodically pings the server's own public URL so that
// free-tier hosts, which idle out instances after a few minutes without
// traffic, keep the process warm.
package keepalive

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger fetches a URL on a fixed interval until its context is canceled.
type Pinger struct {
	url      string
	interval time.Duration
	client   *http.Client
	logger   *slog.Logger
}

// New creates a Pinger. An empty url disables it: Run returns immediately.
func New(url string, interval time.Duration, logger *slog.Logger) *Pinger {
	return &Pinger{
		url:      url,
		interval: interval,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
	}
}

// Run blocks, pinging until ctx is done. Failures are logged and the loop
// continues; a missed ping costs nothing but a cold start.
func (p *Pinger) Run(ctx context.Context) {
	if p.url == "" {
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.ping(ctx)
		}
	}
}

func (p *Pinger) ping(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		p.logger.Warn("keepalive request build failed", "url", p.url, "error", err)
		return
	}
	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Warn("keepalive ping failed", "url", p.url, "error", err)
		return
	}
	resp.Body.Close()
	p.logger.Debug("keepalive ping", "url", p.url, "status", resp.StatusCode)
}
