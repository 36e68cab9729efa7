package di

import (
	"fmt"
	"log/slog"

	"github.com/park285/roblox-mod-relay-go/internal/banlist"
	"github.com/park285/roblox-mod-relay-go/internal/chatguard"
	"github.com/park285/roblox-mod-relay-go/internal/config"
	"github.com/park285/roblox-mod-relay-go/internal/directory"
	"github.com/park285/roblox-mod-relay-go/internal/dispatch"
	"github.com/park285/roblox-mod-relay-go/internal/handler"
	"github.com/park285/roblox-mod-relay-go/internal/logging"
	"github.com/park285/roblox-mod-relay-go/internal/notify"
	"github.com/park285/roblox-mod-relay-go/internal/queue"
	"github.com/park285/roblox-mod-relay-go/internal/server"
)

// InitializeApp 은 애플리케이션 의존성을 초기화하고 App 인스턴스를 반환한다.
func InitializeApp() (*App, error) {
	cfg, err := config.ProvideConfig()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	repository := banlist.NewRepository(cfg, logger)
	registry, err := banlist.NewCachedStore(cfg, repository)
	if err != nil {
		return nil, fmt.Errorf("ban cache: %w", err)
	}

	sessionDirectory := directory.NewDirectory()
	queues := queue.NewManager()
	notifier := notify.NewNotifier(cfg, logger)

	guard, err := chatguard.NewGuard(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("chat guard: %w", err)
	}

	dispatcher := dispatch.NewDispatcher(cfg, logger, registry, sessionDirectory, queues, notifier)
	relayHandler := handler.NewRelayHandler(cfg, logger, sessionDirectory, queues, registry, guard, notifier)
	dispatchHandler := handler.NewDispatchHandler(dispatcher, logger)

	router := handler.NewRouter(cfg, logger, relayHandler, dispatchHandler, registry)
	httpServer := server.NewHTTPServer(cfg, router)

	return NewApp(httpServer, logger, cfg, registry, notifier), nil
}

// ProvideLogger: 로거를 구성해 반환합니다.
func ProvideLogger(cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}
