package api

import (
	"net/http"
	"os"
	"strings"

	"FixtureSync/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SecretGuard /api 访问保护：
// 带正确密钥放行；浏览器直接打开（导航请求）返回空白页；
// 未配置密钥时放行；同源 fetch 放行；其余返回空白页。
func SecretGuard(cfg *config.SecurityConfig, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader("x-secret")
		if provided == "" {
			provided = c.GetHeader("x-api-secret")
		}
		if provided == "" {
			provided = c.Query("secret")
		}

		mode := strings.ToLower(c.GetHeader("Sec-Fetch-Mode"))
		site := strings.ToLower(c.GetHeader("Sec-Fetch-Site"))
		accept := strings.ToLower(c.GetHeader("Accept"))
		isNavigation := mode == "navigate" || strings.Contains(accept, "text/html")
		isSameSiteFetch := mode == "cors" && (site == "same-origin" || site == "same-site")

		switch {
		case provided == cfg.APISecret:
			c.Next()
		case isNavigation:
			blockRequest(c, cfg.BlockedPage)
		case cfg.APISecret == "":
			c.Next()
		case isSameSiteFetch:
			c.Next()
		default:
			logger.WithFields(logrus.Fields{"path": c.Request.URL.Path, "ip": c.ClientIP()}).Warn("拒绝未授权的API请求")
			blockRequest(c, cfg.BlockedPage)
		}
	}
}

// blockRequest 返回空白页；页面文件不存在时返回 403
func blockRequest(c *gin.Context, page string) {
	if page != "" {
		if info, err := os.Stat(page); err == nil && !info.IsDir() {
			c.File(page)
			c.Abort()
			return
		}
	}
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
}
