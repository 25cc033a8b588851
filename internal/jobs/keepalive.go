package jobs

import (
	"context"
	"log"
	"net/http"
	"time"
)

// KeepAlive periodically pings the service's own health endpoint so
// free-tier hosts do not spin the process down. It runs independently
// of request handling and shares no state with it.
type KeepAlive struct {
	url      string
	interval time.Duration
	client   *http.Client
	cancel   context.CancelFunc
}

// NewKeepAlive creates a keep-alive job targeting the given URL.
func NewKeepAlive(url string, interval time.Duration) *KeepAlive {
	return &KeepAlive{
		url:      url,
		interval: interval,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Start launches the ping loop in its own goroutine.
func (k *KeepAlive) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	k.cancel = cancel

	go func() {
		ticker := time.NewTicker(k.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				k.ping(ctx)
			}
		}
	}()

	log.Printf("Keep-alive job started, pinging %s every %s", k.url, k.interval)
}

// Stop terminates the ping loop.
func (k *KeepAlive) Stop() {
	if k.cancel != nil {
		k.cancel()
	}
}

func (k *KeepAlive) ping(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.url, nil)
	if err != nil {
		log.Printf("Keep-alive request error: %v", err)
		return
	}

	resp, err := k.client.Do(req)
	if err != nil {
		log.Printf("Keep-alive ping failed: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Keep-alive ping returned status %d", resp.StatusCode)
	}
}
