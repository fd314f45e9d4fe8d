package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"FixtureSync/internal/config"
	"FixtureSync/internal/interfaces"
	"FixtureSync/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

// ErrEmptyResponse 模型没有返回任何文本
var ErrEmptyResponse = errors.New("gemini returned no text")

// APIError 非 2xx 响应
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini API returned %d: %s", e.StatusCode, e.Body)
}

// Client Gemini generateContent REST 客户端
type Client struct {
	cfg        *config.AgentConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient 未配置 API Key 时返回 nil（调用方按“未配置”处理）
func NewClient(cfg *config.AgentConfig, logger *logrus.Logger) interfaces.TextGenerator {
	if cfg.APIKey == "" {
		return nil
	}
	return &Client{
		cfg: cfg,
		httpClient: httpclient.NewHTTPClient(httpclient.Options{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
			Proxy:   cfg.Proxy,
		}, logger),
		logger: logger,
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate 系统指令与用户输入作为同一条 user 消息的两个 part 发送
func (c *Client) Generate(ctx context.Context, system, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: system}, {Text: prompt}},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("序列化请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("构建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("调用Gemini失败: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("读取Gemini响应失败: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WithField("status", resp.StatusCode).Warn("Gemini返回错误状态")
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("解析Gemini响应失败: %w", err)
	}
	if len(out.Candidates) == 0 {
		return "", ErrEmptyResponse
	}
	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}

// endpoint {base}/{version}/models/{model}:generateContent?key=...
func (c *Client) endpoint() string {
	model := strings.TrimPrefix(c.cfg.Model, "models/")
	return fmt.Sprintf("%s/%s/models/%s:generateContent?key=%s",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.APIVersion, model, url.QueryEscape(c.cfg.APIKey))
}
