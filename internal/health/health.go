package health

import (
	"context"
	"time"

	"github.com/park285/roblox-mod-relay-go/internal/config"
)

var startTime = time.Now()

// Pinger 는 밴 레지스트리 연결 확인 인터페이스다.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Component 는 상태 구성 요소다.
type Component struct {
	Status string         `json:"status"`
	Detail map[string]any `json:"detail"`
}

// Response 는 상태 응답 본문이다.
type Response struct {
	Status     string               `json:"status"`
	Components map[string]Component `json:"components"`
}

// Collect 는 헬스 상태를 수집한다.
// deepChecks 가 false 이면 외부 의존성(DB)을 건드리지 않는 liveness 전용 응답을 만든다.
func Collect(ctx context.Context, cfg *config.Config, registry Pinger, deepChecks bool) Response {
	components := make(map[string]Component)
	components["app"] = buildAppStatus()
	components["ban_registry"] = buildRegistryStatus(ctx, cfg, registry, deepChecks)

	overall := "ok"
	for _, component := range components {
		if component.Status != "ok" {
			overall = "degraded"
			break
		}
	}

	return Response{
		Status:     overall,
		Components: components,
	}
}

func buildAppStatus() Component {
	uptimeSeconds := int(time.Since(startTime).Seconds())
	return Component{
		Status: "ok",
		Detail: map[string]any{
			"uptime_seconds": uptimeSeconds,
		},
	}
}

func buildRegistryStatus(ctx context.Context, cfg *config.Config, registry Pinger, deepChecks bool) Component {
	reachability := false
	pingErr := ""
	cacheEnabled := false

	if cfg != nil {
		cacheEnabled = cfg.BanCache.Enabled
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if deepChecks && registry != nil {
		checkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()

		if err := registry.Ping(checkCtx); err != nil {
			pingErr = err.Error()
		} else {
			reachability = true
		}
	}

	status := "ok"
	if deepChecks && !reachability {
		status = "degraded"
	}

	detail := map[string]any{
		"connected":     reachability,
		"cache_enabled": cacheEnabled,
		"deep_checked":  deepChecks,
	}
	if pingErr != "" {
		detail["ping_error"] = pingErr
	}

	return Component{
		Status: status,
		Detail: detail,
	}
}
