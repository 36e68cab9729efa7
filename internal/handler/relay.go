package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/park285/roblox-mod-relay-go/internal/banlist"
	"github.com/park285/roblox-mod-relay-go/internal/chatguard"
	"github.com/park285/roblox-mod-relay-go/internal/config"
	"github.com/park285/roblox-mod-relay-go/internal/directory"
	"github.com/park285/roblox-mod-relay-go/internal/handler/shared"
	"github.com/park285/roblox-mod-relay-go/internal/httperror"
	"github.com/park285/roblox-mod-relay-go/internal/queue"
)

// RelayEvents 는 게임 이벤트 알림 collaborator 인터페이스다.
// 전달 실패는 구현체가 묵살하며 핸들러 응답에 영향을 주지 않는다.
type RelayEvents interface {
	PlayerJoined(username string, userID int64, serverID string, joinCount int64, flagged bool)
	PlayerLeft(username string, userID int64, serverID string)
	ChatMessage(username string, userID int64, text string, flaggedRules []string)
	TeleportAttempt(userID int64, code string, serverID string, success bool)
}

// RelayHandler 는 게임 서버가 폴링으로 호출하는 중계 라우트를 담당한다.
type RelayHandler struct {
	cfg       *config.Config
	logger    *slog.Logger
	directory *directory.Directory
	queues    *queue.Manager
	store     banlist.Store
	guard     chatguard.Guard
	events    RelayEvents
}

// NewRelayHandler 는 중계 핸들러를 생성한다. guard 와 events 는 nil 이어도 된다.
func NewRelayHandler(
	cfg *config.Config,
	logger *slog.Logger,
	dir *directory.Directory,
	queues *queue.Manager,
	store banlist.Store,
	guard chatguard.Guard,
	events RelayEvents,
) *RelayHandler {
	return &RelayHandler{
		cfg:       cfg,
		logger:    logger,
		directory: dir,
		queues:    queues,
		store:     store,
		guard:     guard,
		events:    events,
	}
}

// RegisterRoutes 중계 라우트 등록
func (h *RelayHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/roblox")
	group.POST("/register-server", h.handleRegisterServer)
	group.POST("/chat", h.handleChat)
	group.GET("/poll-commands", h.handlePollCommands)
	group.POST("/poll-commands", h.handlePollCommands)
	group.POST("/ack", h.handleAck)
	group.GET("/check-ban", h.handleCheckBan)
	group.POST("/player-left", h.handlePlayerLeft)
	group.POST("/teleport-attempt", h.handleTeleportAttempt)
}

type playerPayload struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

type registerServerRequest struct {
	ServerID string          `json:"serverId"`
	Players  []playerPayload `json:"players"`
}

// handleRegisterServer 는 서버 인스턴스의 현재 접속자 명단을 세션 디렉터리에 반영한다.
func (h *RelayHandler) handleRegisterServer(c *gin.Context) {
	var raw map[string]any
	if !bindJSON(c, &raw) {
		return
	}

	var req registerServerRequest
	if err := shared.Decode(raw, &req); err != nil {
		writeError(c, httperror.NewInvalidInput(err.Error()))
		return
	}
	if strings.TrimSpace(req.ServerID) == "" {
		writeError(c, httperror.NewMissingField("serverId"))
		return
	}

	h.queues.Register(req.ServerID)

	threshold := h.joinAlertThreshold()
	for _, player := range req.Players {
		if player.UserID <= 0 {
			continue
		}
		count := h.directory.RecordJoin(player.UserID, req.ServerID)
		if h.events != nil {
			h.events.PlayerJoined(player.Username, player.UserID, req.ServerID, count, count >= threshold)
		}
	}

	if h.logger != nil {
		h.logger.Debug("server_registered",
			"server_id", req.ServerID, "players", len(req.Players))
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type chatRequest struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Text     string `json:"text"`
}

// handleChat 는 게임 내 채팅을 알림으로만 중계한다. 코어 상태는 건드리지 않는다.
func (h *RelayHandler) handleChat(c *gin.Context) {
	var raw map[string]any
	if !bindJSON(c, &raw) {
		return
	}

	var req chatRequest
	if err := shared.Decode(raw, &req); err != nil {
		writeError(c, httperror.NewInvalidInput(err.Error()))
		return
	}

	var flaggedRules []string
	if h.guard != nil {
		if evaluation := h.guard.Evaluate(req.Text); evaluation.Flagged() {
			flaggedRules = evaluation.RuleIDs()
		}
	}
	if h.events != nil {
		h.events.ChatMessage(req.Username, req.UserID, req.Text, flaggedRules)
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// handlePollCommands 는 서버 큐를 비파괴 조회한다. ack 전까지 같은 명령이 반복 반환된다.
func (h *RelayHandler) handlePollCommands(c *gin.Context) {
	serverID := strings.TrimSpace(c.Query("serverId"))
	if serverID == "" && c.Request.Method == http.MethodPost {
		var raw map[string]any
		if !bindJSON(c, &raw) {
			return
		}
		if value, ok := raw["serverId"].(string); ok {
			serverID = strings.TrimSpace(value)
		}
	}
	if serverID == "" {
		writeError(c, httperror.NewMissingField("serverId"))
		return
	}

	commands := h.queues.Drain(serverID)
	c.JSON(http.StatusOK, gin.H{"commands": commands})
}

type ackRequest struct {
	ServerID string   `json:"serverId"`
	IDs      []string `json:"ids"`
}

// handleAck 는 서버가 적용 완료한 명령을 큐에서 제거한다. 중복 호출에 안전하다.
func (h *RelayHandler) handleAck(c *gin.Context) {
	var req ackRequest
	if !bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.ServerID) == "" {
		writeError(c, httperror.NewMissingField("serverId"))
		return
	}

	h.queues.Acknowledge(req.ServerID, req.IDs)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// handleCheckBan 는 밴 레지스트리를 직접 조회한다. 서버의 접속 허용 판정에 쓰인다.
func (h *RelayHandler) handleCheckBan(c *gin.Context) {
	rawUserID := strings.TrimSpace(c.Query("userId"))
	if rawUserID == "" {
		writeError(c, httperror.NewMissingField("userId"))
		return
	}
	userID, err := strconv.ParseInt(rawUserID, 10, 64)
	if err != nil || userID <= 0 {
		writeError(c, httperror.NewInvalidInput("invalid userId: "+rawUserID))
		return
	}

	record, err := h.store.IsBanned(c.Request.Context(), h.networkID(), userID)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("check_ban_failed", "user_id", userID, "err", err)
		}
		writeError(c, err)
		return
	}

	if record == nil {
		c.JSON(http.StatusOK, gin.H{"banned": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"banned": true, "reason": record.Reason})
}

type playerLeftRequest struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	ServerID string `json:"serverId"`
}

func (h *RelayHandler) handlePlayerLeft(c *gin.Context) {
	var raw map[string]any
	if !bindJSON(c, &raw) {
		return
	}

	var req playerLeftRequest
	if err := shared.Decode(raw, &req); err != nil {
		writeError(c, httperror.NewInvalidInput(err.Error()))
		return
	}

	h.directory.RecordLeave(req.UserID)
	if h.events != nil {
		h.events.PlayerLeft(req.Username, req.UserID, req.ServerID)
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type teleportAttemptRequest struct {
	UserID   int64  `json:"userId"`
	Code     string `json:"code"`
	ServerID string `json:"serverId"`
	Success  bool   `json:"success"`
}

// handleTeleportAttempt 는 알림 전용 패스스루다.
func (h *RelayHandler) handleTeleportAttempt(c *gin.Context) {
	var raw map[string]any
	if !bindJSON(c, &raw) {
		return
	}

	var req teleportAttemptRequest
	if err := shared.Decode(raw, &req); err != nil {
		writeError(c, httperror.NewInvalidInput(err.Error()))
		return
	}

	if h.events != nil {
		h.events.TeleportAttempt(req.UserID, req.Code, req.ServerID, req.Success)
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *RelayHandler) joinAlertThreshold() int64 {
	if h.cfg != nil && h.cfg.Relay.JoinAlertThreshold > 0 {
		return h.cfg.Relay.JoinAlertThreshold
	}
	return 3
}

func (h *RelayHandler) networkID() string {
	if h.cfg != nil && h.cfg.Relay.NetworkID != "" {
		return h.cfg.Relay.NetworkID
	}
	return "global"
}
