package api

import (
	"errors"
	"net/http"
	"strings"

	"FixtureSync/internal/model"
	"FixtureSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// MatchHandler 比赛增删改查接口
type MatchHandler struct {
	matchService *service.MatchService
	logger       *logrus.Logger
}

// NewMatchHandler 创建 MatchHandler
func NewMatchHandler(matchService *service.MatchService, logger *logrus.Logger) *MatchHandler {
	return &MatchHandler{
		matchService: matchService,
		logger:       logger,
	}
}

// ListMatches 今天 / 过去 / 未来三组比赛
// GET /api/matches?league=premier
func (h *MatchHandler) ListMatches(c *gin.Context) {
	board, err := h.matchService.Board(c.Request.Context(), c.Query("league"))
	if err != nil {
		h.logger.WithError(err).Error("ListMatches failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, board)
}

// GetMatch 单场比赛
// GET /api/matches/:id
func (h *MatchHandler) GetMatch(c *gin.Context) {
	match, err := h.matchService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, "GetMatch", err)
		return
	}
	c.JSON(http.StatusOK, match)
}

// CreateMatch 新建比赛（表单或 JSON）。表单提交成功后重定向回录入页
// POST /api/matches
func (h *MatchHandler) CreateMatch(c *gin.Context) {
	var payload model.MatchPayload
	if err := c.ShouldBind(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	match, err := h.matchService.Create(c.Request.Context(), payload)
	if err != nil {
		h.writeError(c, "CreateMatch", err)
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "match": match})
		return
	}
	c.Redirect(http.StatusFound, "/add-match.html?success=1")
}

// UpdateMatch 部分更新
// PUT /api/matches/:id
func (h *MatchHandler) UpdateMatch(c *gin.Context) {
	var payload model.MatchPayload
	if err := c.ShouldBind(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	match, err := h.matchService.Update(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		h.writeError(c, "UpdateMatch", err)
		return
	}
	c.JSON(http.StatusOK, match)
}

// DeleteMatch 删除
// DELETE /api/matches/:id
func (h *MatchHandler) DeleteMatch(c *gin.Context) {
	match, err := h.matchService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, "DeleteMatch", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "match": match})
}

// writeError 找不到 404，参数错误 400，其余 500
func (h *MatchHandler) writeError(c *gin.Context, op string, err error) {
	var verr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrMatchNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "match not found"})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Msg})
	default:
		h.logger.WithError(err).Error(op + " failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// wantsJSON 请求体或 Accept 为 JSON 时按 API 调用处理
func wantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json") ||
		strings.Contains(c.ContentType(), "application/json")
}
