package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"FixtureSync/internal/interfaces"
	"FixtureSync/internal/model"

	"github.com/sirupsen/logrus"
)

// ErrAgentNotConfigured 未配置文本生成服务（缺少 API Key）
var ErrAgentNotConfigured = errors.New("text generation is not configured: GOOGLE_API_KEY is not set")

// AIResponseError 模型返回的文本无法解析为比赛 JSON
type AIResponseError struct {
	Raw string
	Err error
}

func (e *AIResponseError) Error() string { return fmt.Sprintf("AI response could not be parsed: %v", e.Err) }
func (e *AIResponseError) Unwrap() error { return e.Err }

// agentSystemPrompt 要求模型只输出比赛 JSON；仅在提到比分时才带比分字段
const agentSystemPrompt = `
Convert the natural language instruction into JSON WITH THE REQUIRED FIELDS: date, competition, home_team_name and away_team_name.

Only include home_score and away_score IF the match score is mentioned in the input. If no score is mentioned (only a fixture is being added), DO NOT include the score fields.

Example JSON for a fixture:
{
  "date": "YYYY-MM-DD",
  "competition": "League name",
  "home_team_name": "Home club",
  "away_team_name": "Away club"
}
Example JSON for a result:
{
  "date": "YYYY-MM-DD",
  "competition": "League name",
  "home_team_name": "Home club",
  "away_team_name": "Away club",
  "home_score": number,
  "away_score": number
}

Answer ONLY with valid JSON and no other text. The input may be in Indonesian.
`

var codeFence = regexp.MustCompile("(?i)```(json)?")

// AgentService 自然语言“添加比赛”：文本生成 -> 解析 JSON -> 创建比赛
type AgentService struct {
	generator interfaces.TextGenerator // nil 表示未配置
	matches   *MatchService
	logger    *logrus.Logger
}

func NewAgentService(generator interfaces.TextGenerator, matches *MatchService, logger *logrus.Logger) *AgentService {
	return &AgentService{generator: generator, matches: matches, logger: logger}
}

// AddFromPrompt 返回保存后的比赛
func (s *AgentService) AddFromPrompt(ctx context.Context, prompt string) (model.Match, error) {
	if strings.TrimSpace(prompt) == "" {
		return model.Match{}, &ValidationError{Msg: "prompt is required"}
	}
	if s.generator == nil {
		return model.Match{}, ErrAgentNotConfigured
	}

	text, err := s.generator.Generate(ctx, agentSystemPrompt, prompt)
	if err != nil {
		return model.Match{}, fmt.Errorf("文本生成失败: %w", err)
	}
	text = strings.TrimSpace(text)

	var payload model.MatchPayload
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &payload); err != nil {
		s.logger.WithError(err).WithField("raw", text).Warn("AI 返回内容无法解析")
		return model.Match{}, &AIResponseError{Raw: text, Err: err}
	}

	return s.matches.Create(ctx, payload)
}

func stripCodeFence(text string) string {
	return strings.TrimSpace(codeFence.ReplaceAllString(text, ""))
}
