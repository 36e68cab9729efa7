package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/park285/roblox-mod-relay-go/internal/banlist"
	"github.com/park285/roblox-mod-relay-go/internal/config"
	"github.com/park285/roblox-mod-relay-go/internal/directory"
	"github.com/park285/roblox-mod-relay-go/internal/queue"
)

// ModerationEvents 는 밴/해제 사실을 알리는 collaborator 인터페이스다.
// 전달 실패는 구현체가 묵살해야 하며 디스패처는 결과를 확인하지 않는다.
type ModerationEvents interface {
	BanIssued(userID int64, reason string, moderator string)
	BanLifted(userID int64, moderator string)
}

// Result 는 명령 처리 결과다.
type Result struct {
	Reply    string `json:"reply"`
	Enqueued int    `json:"enqueued"`
	ServerID string `json:"serverId,omitempty"`
}

// Dispatcher 는 운영자 명령을 해석해 코어 서브시스템에 반영한다.
type Dispatcher struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     banlist.Store
	directory *directory.Directory
	queues    *queue.Manager
	events    ModerationEvents
}

// NewDispatcher 는 디스패처를 생성한다. events 는 nil 이어도 된다.
func NewDispatcher(
	cfg *config.Config,
	logger *slog.Logger,
	store banlist.Store,
	dir *directory.Directory,
	queues *queue.Manager,
	events ModerationEvents,
) *Dispatcher {
	return &Dispatcher{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		directory: dir,
		queues:    queues,
		events:    events,
	}
}

// Handle 는 운영자 명령 텍스트 한 줄을 처리한다.
// 실패는 에러로 반환되며 디스패처 자체 상태는 변하지 않는다.
func (d *Dispatcher) Handle(ctx context.Context, actor string, text string) (Result, error) {
	inst, err := ParseInstruction(text)
	if err != nil {
		return Result{}, err
	}

	switch inst.Action {
	case "help":
		return Result{Reply: HelpText}, nil
	case "warn", "unwarn", "kick":
		return d.handleSessionAction(inst)
	case "forceteleport":
		return d.handleForceTeleport(inst)
	case "ban":
		return d.handleBan(ctx, actor, inst)
	case "unban":
		return d.handleUnban(ctx, actor, inst)
	default:
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownAction, inst.Action)
	}
}

// handleSessionAction 는 대상 유저의 현재 서버 큐에만 명령을 넣는다.
func (d *Dispatcher) handleSessionAction(inst Instruction) (Result, error) {
	serverID, ok := d.directory.CurrentServer(inst.UserID)
	if !ok {
		return Result{}, ErrNoActiveSession
	}

	reason := d.reasonOrDefault(inst.Reason)
	if inst.Action == "unwarn" {
		reason = ""
	}

	cmd := queue.Command{
		ID:     queue.NewCommandID(),
		Action: queue.Action(inst.Action),
		UserID: inst.UserID,
		Reason: reason,
	}
	d.queues.Enqueue(serverID, cmd)

	if d.logger != nil {
		d.logger.Info("command_enqueued",
			"action", inst.Action, "user_id", inst.UserID, "server_id", serverID)
	}
	return Result{
		Reply:    fmt.Sprintf("Queued %s for %d on %s", inst.Action, inst.UserID, serverID),
		Enqueued: 1,
		ServerID: serverID,
	}, nil
}

func (d *Dispatcher) handleForceTeleport(inst Instruction) (Result, error) {
	serverID, ok := d.directory.CurrentServer(inst.UserID)
	if !ok {
		return Result{}, ErrNoActiveSession
	}

	cmd := queue.Command{
		ID:      queue.NewCommandID(),
		Action:  queue.ActionForceTeleport,
		UserID:  inst.UserID,
		PlaceID: inst.PlaceID,
	}
	d.queues.Enqueue(serverID, cmd)

	if d.logger != nil {
		d.logger.Info("command_enqueued",
			"action", "forceteleport", "user_id", inst.UserID,
			"server_id", serverID, "place_id", inst.PlaceID)
	}
	return Result{
		Reply:    fmt.Sprintf("Teleporting %d to place %d", inst.UserID, inst.PlaceID),
		Enqueued: 1,
		ServerID: serverID,
	}, nil
}

// handleBan 는 레지스트리 upsert 가 성공한 뒤에만 전체 서버로 fan-out 한다.
// upsert 실패 시 어떤 큐에도 명령이 들어가지 않는다.
func (d *Dispatcher) handleBan(ctx context.Context, actor string, inst Instruction) (Result, error) {
	reason := d.reasonOrDefault(inst.Reason)

	if err := d.store.UpsertBan(ctx, d.networkID(), inst.UserID, reason, actor); err != nil {
		return Result{}, err
	}

	// 대상이 다른 계정으로 접속해 있을 수 있으므로 모든 서버 큐에 전달한다.
	servers := d.queues.ServerIDs()
	for _, serverID := range servers {
		d.queues.Enqueue(serverID, queue.Command{
			ID:     queue.NewCommandID(),
			Action: queue.ActionBan,
			UserID: inst.UserID,
			Reason: reason,
		})
	}

	if d.events != nil {
		d.events.BanIssued(inst.UserID, reason, actor)
	}
	if d.logger != nil {
		d.logger.Info("ban_issued",
			"user_id", inst.UserID, "moderator", actor, "servers", len(servers))
	}
	return Result{
		Reply:    fmt.Sprintf("Banned %d (%s), notified %d server(s)", inst.UserID, reason, len(servers)),
		Enqueued: len(servers),
	}, nil
}

// handleUnban 는 레지스트리에서만 지운다. 접속 중인 세션에는 즉시 효과가 없다.
func (d *Dispatcher) handleUnban(ctx context.Context, actor string, inst Instruction) (Result, error) {
	if err := d.store.DeleteBan(ctx, d.networkID(), inst.UserID); err != nil {
		return Result{}, err
	}

	if d.events != nil {
		d.events.BanLifted(inst.UserID, actor)
	}
	if d.logger != nil {
		d.logger.Info("ban_lifted", "user_id", inst.UserID, "moderator", actor)
	}
	return Result{
		Reply: fmt.Sprintf("Unbanned %d", inst.UserID),
	}, nil
}

func (d *Dispatcher) reasonOrDefault(reason string) string {
	reason = strings.TrimSpace(reason)
	if reason != "" {
		return reason
	}
	if d.cfg != nil && d.cfg.Relay.DefaultReason != "" {
		return d.cfg.Relay.DefaultReason
	}
	return "Rule violation"
}

func (d *Dispatcher) networkID() string {
	if d.cfg != nil && d.cfg.Relay.NetworkID != "" {
		return d.cfg.Relay.NetworkID
	}
	return "global"
}
