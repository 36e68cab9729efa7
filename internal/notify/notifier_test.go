package notify

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/park285/roblox-mod-relay-go/internal/config"
)

type capture struct {
	mu     sync.Mutex
	bodies []string
}

func (c *capture) add(body string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bodies = append(c.bodies, body)
}

func (c *capture) all() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.bodies...)
}

func newTestNotifier(t *testing.T, status int) (*Notifier, *capture) {
	t.Helper()

	captured := &capture{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		captured.add(string(body))
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)

	cfg := &config.Config{
		Webhooks: config.WebhookConfig{
			Logs:     server.URL,
			UserBans: server.URL,
			Teleport: server.URL,
			Health:   server.URL,
		},
		Relay: config.RelayConfig{
			NotifyWorkers:        2,
			NotifyQueueSize:      16,
			NotifyTimeoutSeconds: 2,
			NotifyMaxRetries:     0,
		},
	}
	return NewNotifier(cfg, nil), captured
}

func TestPlayerJoinedDelivery(t *testing.T) {
	notifier, captured := newTestNotifier(t, http.StatusNoContent)

	notifier.PlayerJoined("builder", 42, "srv-a", 3, true)
	notifier.Close()

	bodies := captured.all()
	if len(bodies) != 1 {
		t.Fatalf("expected one delivery, got %d", len(bodies))
	}

	var payload webhookPayload
	if err := json.Unmarshal([]byte(bodies[0]), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if len(payload.Embeds) != 1 {
		t.Fatalf("expected one embed, got %d", len(payload.Embeds))
	}
	embed := payload.Embeds[0]
	if embed.Title != "👤 Player Joined" {
		t.Fatalf("unexpected title: %s", embed.Title)
	}
	if embed.Color != ColorAlert {
		t.Fatalf("expected alert color for flagged join, got %#x", embed.Color)
	}
	if len(embed.Fields) != 4 || embed.Fields[3].Value != "3" {
		t.Fatalf("unexpected fields: %+v", embed.Fields)
	}
}

func TestChatMessageFlagged(t *testing.T) {
	notifier, captured := newTestNotifier(t, http.StatusNoContent)

	notifier.ChatMessage("builder", 42, "bad words", []string{"profanity", "scam"})
	notifier.Close()

	bodies := captured.all()
	if len(bodies) != 1 {
		t.Fatalf("expected one delivery, got %d", len(bodies))
	}
	if !strings.Contains(bodies[0], "flagged") || !strings.Contains(bodies[0], "profanity, scam") {
		t.Fatalf("expected flagged chat payload, got %s", bodies[0])
	}
}

func TestDeliveryFailureIsSwallowed(t *testing.T) {
	notifier, captured := newTestNotifier(t, http.StatusInternalServerError)

	notifier.PlayerLeft("builder", 42, "srv-a")
	notifier.Close()

	// 실패해도 패닉/블로킹 없이 반환하며 전송 시도는 일어난다
	if len(captured.all()) == 0 {
		t.Fatalf("expected delivery attempt")
	}
}

func TestEmptyURLSkipsDelivery(t *testing.T) {
	cfg := &config.Config{
		Relay: config.RelayConfig{NotifyWorkers: 1, NotifyQueueSize: 4, NotifyTimeoutSeconds: 1},
	}
	notifier := NewNotifier(cfg, nil)
	notifier.Online()
	notifier.Close()
}
