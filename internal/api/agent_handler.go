package api

import (
	"errors"
	"net/http"

	"FixtureSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AgentHandler 自然语言添加比赛
type AgentHandler struct {
	agentService *service.AgentService
	logger       *logrus.Logger
}

func NewAgentHandler(agentService *service.AgentService, logger *logrus.Logger) *AgentHandler {
	return &AgentHandler{agentService: agentService, logger: logger}
}

type agentRequest struct {
	Prompt string `json:"prompt" form:"prompt"`
}

// AddMatch POST /agent {"prompt": "..."}
func (h *AgentHandler) AddMatch(c *gin.Context) {
	var req agentRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
		return
	}

	match, err := h.agentService.AddFromPrompt(c.Request.Context(), req.Prompt)
	if err != nil {
		var (
			verr *service.ValidationError
			aerr *service.AIResponseError
		)
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Msg})
		case errors.Is(err, service.ErrAgentNotConfigured):
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		case errors.As(err, &aerr):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "AI response is not valid JSON", "raw": aerr.Raw})
		default:
			h.logger.WithError(err).Error("AddMatch failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process the request", "detail": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "saved_match": match})
}
