package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// MatchPayload 创建/更新比赛的请求体，表单与 JSON 通用（文本生成接口也解析成它）
type MatchPayload struct {
	ID              string     `json:"id" form:"id"`
	Date            string     `json:"date" form:"date"`
	Competition     string     `json:"competition" form:"competition"`
	HomeTeamName    string     `json:"home_team_name" form:"home_team_name"`
	AwayTeamName    string     `json:"away_team_name" form:"away_team_name"`
	HomeScore       ScoreInput `json:"home_score" form:"home_score"`
	AwayScore       ScoreInput `json:"away_score" form:"away_score"`
	HomeTeamLogoURL string     `json:"home_team_logo_url" form:"home_team_logo_url"`
	AwayTeamLogoURL string     `json:"away_team_logo_url" form:"away_team_logo_url"`
}

// ScoreInput 比分输入。Set 表示请求里给了值（JSON null 视为未给）；
// 空串或非数字得到 Set=true、Value=nil，即清空比分。
type ScoreInput struct {
	Set   bool
	Value *int
}

// NewScore 便于构造请求
func NewScore(v int) ScoreInput {
	return ScoreInput{Set: true, Value: &v}
}

func (s *ScoreInput) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*s = ScoreInput{}
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		raw = str
	}
	*s = ScoreInput{Set: true, Value: ParseScore(raw)}
	return nil
}

// UnmarshalParam 供 gin 表单绑定使用
func (s *ScoreInput) UnmarshalParam(param string) error {
	*s = ScoreInput{Set: true, Value: ParseScore(param)}
	return nil
}

// int 的取值范围（float64 表示）；MaxInt 本身在 float64 下会进位到 2^63，故上界不含等号
const (
	maxScore = float64(math.MaxInt)
	minScore = float64(math.MinInt)
)

// ParseScore 空串、无法解析或超出 int 范围时返回 nil
func ParseScore(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	// 超出 int 范围的转换结果与平台相关，按无效比分处理
	if f >= maxScore || f < minScore {
		return nil
	}
	n := int(f)
	return &n
}
