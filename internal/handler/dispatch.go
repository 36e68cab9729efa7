package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/park285/roblox-mod-relay-go/internal/dispatch"
	"github.com/park285/roblox-mod-relay-go/internal/httperror"
)

// DispatchHandler 는 운영자 명령 라우트를 담당한다.
type DispatchHandler struct {
	dispatcher *dispatch.Dispatcher
	logger     *slog.Logger
}

// NewDispatchHandler 디스패치 핸들러 생성
func NewDispatchHandler(dispatcher *dispatch.Dispatcher, logger *slog.Logger) *DispatchHandler {
	return &DispatchHandler{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterRoutes 디스패치 라우트 등록
func (h *DispatchHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/dispatch", h.handleDispatch)
}

type dispatchRequest struct {
	Actor string `json:"actor"`
	Text  string `json:"text" binding:"required"`
}

// handleDispatch 는 운영자 명령 한 줄을 처리해 결과를 돌려준다.
// 명령 거부(세션 없음, 인자 오류 등)는 에러 응답으로 변환되지만 디스패처는 계속 동작한다.
func (h *DispatchHandler) handleDispatch(c *gin.Context) {
	var req dispatchRequest
	if !bindJSON(c, &req) {
		return
	}

	actor := strings.TrimSpace(req.Actor)
	if actor == "" {
		actor = "operator"
	}

	result, err := h.dispatcher.Handle(c.Request.Context(), actor, req.Text)
	if err != nil {
		if apiErr := httperror.FromError(err); apiErr.Code == httperror.ErrorCodeInternal && h.logger != nil {
			h.logger.Error("dispatch_failed", "actor", actor, "err", err)
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
