package notify

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goccy/go-json"
	"github.com/sourcegraph/conc/pool"

	"github.com/park285/roblox-mod-relay-go/internal/config"
)

type delivery struct {
	url   string
	embed Embed
}

// Notifier 는 웹훅 알림을 best-effort 로 전달한다.
// 전달은 비동기이며 실패는 로그만 남기고 묵살한다. 호출 경로를 절대 막지 않는다.
type Notifier struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpClient *http.Client

	queue      chan delivery
	workers    *pool.Pool
	dispatchWG sync.WaitGroup
	maxRetries uint64

	closeOnce sync.Once
}

// NewNotifier 는 워커 풀 기반 알림 전달자를 생성한다.
func NewNotifier(cfg *config.Config, logger *slog.Logger) *Notifier {
	workers := cfg.Relay.NotifyWorkers
	if workers <= 0 {
		workers = 1
	}
	queueSize := cfg.Relay.NotifyQueueSize
	if queueSize <= 0 {
		queueSize = 64
	}
	timeout := time.Duration(cfg.Relay.NotifyTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxRetries := cfg.Relay.NotifyMaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	n := &Notifier{
		cfg:        cfg,
		logger:     logger,
		httpClient: &http.Client{Timeout: timeout},
		queue:      make(chan delivery, queueSize),
		workers:    pool.New().WithMaxGoroutines(workers),
		maxRetries: uint64(maxRetries),
	}

	n.dispatchWG.Add(1)
	go n.dispatchLoop()
	return n
}

// Close 는 대기 중인 알림을 모두 내보낸 뒤 반환한다.
func (n *Notifier) Close() {
	n.closeOnce.Do(func() {
		close(n.queue)
	})
	n.dispatchWG.Wait()
	n.workers.Wait()
}

func (n *Notifier) dispatchLoop() {
	defer n.dispatchWG.Done()
	for d := range n.queue {
		d := d
		n.workers.Go(func() {
			n.deliver(d)
		})
	}
}

// send 는 전달 요청을 큐에 넣는다. 큐가 가득 차면 버린다.
func (n *Notifier) send(url string, embed Embed) {
	if url == "" {
		return
	}
	select {
	case n.queue <- delivery{url: url, embed: embed}:
	default:
		if n.logger != nil {
			n.logger.Warn("notify_queue_full", "title", embed.Title)
		}
	}
}

func (n *Notifier) deliver(d delivery) {
	payload, err := json.Marshal(webhookPayload{Embeds: []Embed{d.embed}})
	if err != nil {
		if n.logger != nil {
			n.logger.Warn("notify_marshal_failed", "err", err)
		}
		return
	}

	operation := func() error {
		req, reqErr := http.NewRequest(http.MethodPost, d.url, bytes.NewReader(payload))
		if reqErr != nil {
			return backoff.Permanent(reqErr)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, postErr := n.httpClient.Do(req)
		if postErr != nil {
			return postErr
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("webhook status %d", resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("webhook status %d", resp.StatusCode))
		}
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), n.maxRetries)
	if err := backoff.Retry(operation, policy); err != nil {
		if n.logger != nil {
			n.logger.Warn("notify_delivery_failed", "title", d.embed.Title, "err", err)
		}
		return
	}

	if n.logger != nil {
		n.logger.Debug("notify_delivered", "title", d.embed.Title)
	}
}
