package di

import (
	"log/slog"
	"net/http"

	"github.com/park285/roblox-mod-relay-go/internal/banlist"
	"github.com/park285/roblox-mod-relay-go/internal/config"
	"github.com/park285/roblox-mod-relay-go/internal/notify"
)

// App: 애플리케이션 구성 요소를 묶는다.
type App struct {
	Server   *http.Server
	Logger   *slog.Logger
	Config   *config.Config
	Registry banlist.Store
	Notifier *notify.Notifier
}

// NewApp: App 인스턴스를 생성합니다.
func NewApp(
	server *http.Server,
	logger *slog.Logger,
	cfg *config.Config,
	registry banlist.Store,
	notifier *notify.Notifier,
) *App {
	return &App{
		Server:   server,
		Logger:   logger,
		Config:   cfg,
		Registry: registry,
		Notifier: notifier,
	}
}

// Close: 앱 리소스를 정리합니다.
func (a *App) Close() {
	if a.Notifier != nil {
		a.Notifier.Close()
	}
	if a.Registry != nil {
		a.Registry.Close()
	}
}
