package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/park285/roblox-mod-relay-go/internal/dispatch"
	"github.com/park285/roblox-mod-relay-go/internal/queue"
)

func TestDispatchWarnFlow(t *testing.T) {
	f := newRelayFixture(t, nil)
	f.directory.RecordJoin(42, "srv-a")

	resp := f.do(t, http.MethodPost, "/api/dispatch",
		`{"actor":"mod","text":"!warn 42 spamming"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var result dispatch.Result
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Enqueued != 1 || result.ServerID != "srv-a" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if f.queues.Pending("srv-a") != 1 {
		t.Fatalf("expected queued command")
	}
}

func TestDispatchNoActiveSession(t *testing.T) {
	f := newRelayFixture(t, nil)

	resp := f.do(t, http.MethodPost, "/api/dispatch",
		`{"actor":"mod","text":"!kick 42 afk"}`)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "NO_ACTIVE_SESSION") {
		t.Fatalf("expected NO_ACTIVE_SESSION, got %s", resp.Body.String())
	}
}

func TestDispatchUnknownAction(t *testing.T) {
	f := newRelayFixture(t, nil)

	resp := f.do(t, http.MethodPost, "/api/dispatch",
		`{"actor":"mod","text":"!dance 42"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "UNKNOWN_ACTION") {
		t.Fatalf("expected UNKNOWN_ACTION, got %s", resp.Body.String())
	}
}

func TestDispatchBanFansOut(t *testing.T) {
	f := newRelayFixture(t, nil)
	f.queues.Register("srv-a")
	f.queues.Register("srv-b")

	resp := f.do(t, http.MethodPost, "/api/dispatch",
		`{"actor":"mod","text":"!ban 777 exploiting"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var result dispatch.Result
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Enqueued != 2 {
		t.Fatalf("expected fan-out to both servers, got %+v", result)
	}

	check := f.do(t, http.MethodGet, "/roblox/check-ban?userId=777", "")
	if !strings.Contains(check.Body.String(), `"banned":true`) {
		t.Fatalf("expected ban visible via check-ban, got %s", check.Body.String())
	}
}

func TestModerationRoundTrip(t *testing.T) {
	f := newRelayFixture(t, nil)

	for i := 0; i < 3; i++ {
		resp := f.do(t, http.MethodPost, "/roblox/register-server",
			`{"serverId":"srv-a","players":[{"userId":42,"username":"rascal"}]}`)
		if resp.Code != http.StatusOK {
			t.Fatalf("register %d: expected 200, got %d", i, resp.Code)
		}
	}
	if got := f.directory.JoinCount(42); got != 3 {
		t.Fatalf("expected join count 3, got %d", got)
	}
	last := f.events.joins[len(f.events.joins)-1]
	if !last.flagged {
		t.Fatalf("expected third join flagged: %+v", last)
	}

	resp := f.do(t, http.MethodPost, "/api/dispatch",
		`{"actor":"mod","text":"!kick 42 afk"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("dispatch: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	poll := f.do(t, http.MethodGet, "/roblox/poll-commands?serverId=srv-a", "")
	var drained struct {
		Commands []queue.Command `json:"commands"`
	}
	if err := json.Unmarshal(poll.Body.Bytes(), &drained); err != nil {
		t.Fatalf("decode poll: %v", err)
	}
	if len(drained.Commands) != 1 || drained.Commands[0].Action != "kick" {
		t.Fatalf("unexpected poll result: %+v", drained.Commands)
	}

	ack := f.do(t, http.MethodPost, "/roblox/ack",
		`{"serverId":"srv-a","ids":["`+drained.Commands[0].ID+`"]}`)
	if ack.Code != http.StatusOK {
		t.Fatalf("ack: expected 200, got %d", ack.Code)
	}
	if f.queues.Pending("srv-a") != 0 {
		t.Fatalf("expected empty queue after ack")
	}
}

func TestDispatchMissingText(t *testing.T) {
	f := newRelayFixture(t, nil)

	resp := f.do(t, http.MethodPost, "/api/dispatch", `{"actor":"mod"}`)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
}
