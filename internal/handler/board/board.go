package board

import (
	"context"
	"github.com/gin-gonic/gin"
	"hyperboard/internal/board"
	"hyperboard/internal/consts"
	"hyperboard/pkg/errors"
	"hyperboard/pkg/errors/ecode"
	"hyperboard/pkg/response"
	"hyperboard/pkg/validator"
)

// Leaderboard 排行榜服务中 handler 用到的部分
type Leaderboard interface {
	GetTop(ctx context.Context, limit int) board.Outcome
	Snapshot(limit int) (*board.RankedResult, bool)
	State() board.State
	LastState() board.State
}

type Handler struct {
	svc Leaderboard
}

func NewHandler(svc Leaderboard) *Handler {
	return &Handler{svc: svc}
}

type topQuery struct {
	Limit int `form:"limit" binding:"omitempty,gte=1,lte=500"`
}

type TopResp struct {
	*board.RankedResult
	Cached bool `json:"cached"`
}

// TopGet 获取前 N 名，缓存过期时会同步抓取，可能要等十几秒
func (h *Handler) TopGet() gin.HandlerFunc {
	return func(c *gin.Context) {
		var q topQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			msg := validator.Translate(err, c.GetHeader(consts.LanguageId))
			response.JSON(c, errors.New(ecode.InvalidParams, msg), nil)
			return
		}

		out := h.svc.GetTop(c.Request.Context(), q.Limit)
		switch out.State {
		case board.StateSuccess:
			response.JSON(c, nil, TopResp{RankedResult: out.Result, Cached: out.Cached})
		case board.StateEmpty:
			response.JSON(c, errors.Wrap(ecode.NoData, "no leaderboard data right now, try again shortly", out.Err), nil)
		default:
			response.JSON(c, errors.Wrap(ecode.FetchFailed, "leaderboard fetch failed", out.Err), nil)
		}
	}
}

// SnapshotGet 只返回最后一次成功的结果，不触发抓取
func (h *Handler) SnapshotGet() gin.HandlerFunc {
	return func(c *gin.Context) {
		var q topQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			msg := validator.Translate(err, c.GetHeader(consts.LanguageId))
			response.JSON(c, errors.New(ecode.InvalidParams, msg), nil)
			return
		}
		r, ok := h.svc.Snapshot(q.Limit)
		if !ok {
			response.JSON(c, errors.New(ecode.NotCached, "leaderboard not fetched yet"), nil)
			return
		}
		response.JSON(c, nil, r)
	}
}

type StatusResp struct {
	State     string `json:"state"`
	LastState string `json:"last_state"`
	FetchedAt int64  `json:"fetched_at,omitempty"`
}

func (h *Handler) StatusGet() gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := StatusResp{
			State:     h.svc.State().String(),
			LastState: h.svc.LastState().String(),
		}
		if r, ok := h.svc.Snapshot(1); ok {
			resp.FetchedAt = r.FetchedAtMillis
		}
		response.JSON(c, nil, resp)
	}
}
