package health

import (
	"context"
	"errors"
	"testing"

	"github.com/park285/roblox-mod-relay-go/internal/config"
)

type fakePinger struct {
	err error
}

func (p *fakePinger) Ping(context.Context) error { return p.err }

func TestCollectShallow(t *testing.T) {
	cfg := &config.Config{}

	resp := Collect(context.Background(), cfg, &fakePinger{err: errors.New("down")}, false)
	if resp.Status != "ok" {
		t.Fatalf("shallow check must not probe the registry, got %s", resp.Status)
	}
	if resp.Components["app"].Status != "ok" {
		t.Fatalf("expected app ok")
	}
	detail := resp.Components["ban_registry"].Detail
	if detail["deep_checked"] != false {
		t.Fatalf("expected deep_checked=false, got %v", detail["deep_checked"])
	}
}

func TestCollectDeep(t *testing.T) {
	cfg := &config.Config{}

	healthy := Collect(context.Background(), cfg, &fakePinger{}, true)
	if healthy.Status != "ok" {
		t.Fatalf("expected ok with reachable registry, got %s", healthy.Status)
	}
	if healthy.Components["ban_registry"].Detail["connected"] != true {
		t.Fatalf("expected connected=true")
	}

	broken := Collect(context.Background(), cfg, &fakePinger{err: errors.New("dial tcp: refused")}, true)
	if broken.Status != "degraded" {
		t.Fatalf("expected degraded with unreachable registry, got %s", broken.Status)
	}
	if broken.Components["ban_registry"].Detail["ping_error"] == "" {
		t.Fatalf("expected ping error detail")
	}
}
