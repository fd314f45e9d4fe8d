package api

import (
	"net/http"

	"FixtureSync/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RegisterRoutes 注册全部路由：/api 比赛接口（密钥保护）、/agent、/logo 静态目录、前端页面
func RegisterRoutes(r *gin.Engine, cfg *config.Config, matchHandler *MatchHandler, agentHandler *AgentHandler, logger *logrus.Logger) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := r.Group("/api", SecretGuard(&cfg.Security, logger))
	apiGroup.GET("/matches", matchHandler.ListMatches)
	apiGroup.POST("/matches", matchHandler.CreateMatch)
	apiGroup.GET("/matches/:id", matchHandler.GetMatch)
	apiGroup.PUT("/matches/:id", matchHandler.UpdateMatch)
	apiGroup.DELETE("/matches/:id", matchHandler.DeleteMatch)

	r.POST("/agent", agentHandler.AddMatch)

	if cfg.Logo.Root != "" {
		r.Static("/logo", cfg.Logo.Root)
	}

	// 其余路径按前端静态文件处理，/ 返回 index.html
	if cfg.PublicDir != "" {
		files := http.FileServer(http.Dir(cfg.PublicDir))
		r.NoRoute(func(c *gin.Context) {
			if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			files.ServeHTTP(c.Writer, c.Request)
		})
	}
}
