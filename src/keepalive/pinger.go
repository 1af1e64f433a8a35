// Package keepalive periodically hits /api/ping so hosts that sleep idle
// processes keep the server warm.
package keepalive

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"luna_chat/src/logger"
	"luna_chat/src/model"

	"github.com/bytedance/sonic"
)

const userAgent = "KeepAlive-Bot/1.0"

type Pinger struct {
	url        string
	interval   time.Duration
	maxRetries int
	client     *http.Client

	mu       sync.Mutex
	failures int
}

func NewPinger(config model.KeepAliveConfig) *Pinger {
	if config.MaxRetries <= 0 {
		config.MaxRetries = 3
	}
	if config.Interval <= 0 {
		config.Interval = 14 * time.Minute
	}
	return &Pinger{
		url:        strings.TrimRight(config.URL, "/") + "/api/ping",
		interval:   config.Interval,
		maxRetries: config.MaxRetries,
		client:     &http.Client{Timeout: config.Timeout},
	}
}

// Ping performs one request. After maxRetries consecutive failures the
// counter starts over and the pinger waits for the next tick.
func (p *Pinger) Ping(ctx context.Context) error {
	pong, err := p.ping(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		p.failures++
		logger.Warn().Err(err).
			Int("attempt", p.failures).
			Int("max_retries", p.maxRetries).
			Str("url", p.url).
			Msg("Keep-alive ping failed")
		if p.failures >= p.maxRetries {
			logger.Info().Msg("Keep-alive retries exhausted, waiting for next cycle")
			p.failures = 0
		}
		return err
	}

	p.failures = 0
	logger.Info().Float64("uptime", pong.Uptime).Msg("Keep-alive pong received")
	return nil
}

func (p *Pinger) ping(ctx context.Context) (model.PingResponse, error) {
	var pong model.PingResponse

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return pong, fmt.Errorf("failed to build ping request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return pong, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return pong, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&pong); err != nil {
		return pong, fmt.Errorf("failed to decode pong: %w", err)
	}
	return pong, nil
}

// Failures is the current consecutive failure count.
func (p *Pinger) Failures() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failures
}

// Run pings after delay and then every interval until ctx is done.
func (p *Pinger) Run(ctx context.Context, delay time.Duration) {
	logger.Info().
		Str("url", p.url).
		Dur("interval", p.interval).
		Msg("Keep-alive started")

	if delay > 0 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
	_ = p.Ping(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Keep-alive stopped")
			return
		case <-ticker.C:
			_ = p.Ping(ctx)
		}
	}
}
