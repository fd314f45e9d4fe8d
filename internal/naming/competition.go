package naming

import "strings"

// DefaultCompetition 未填写或无法识别联赛时的默认值
const DefaultCompetition = "Premier League"

// 表示“没有联赛”的占位词（namaliga 来自旧表单的默认文案）
var placeholderTokens = []string{"unknown", "namaliga"}

// CanonicalizeCompetition 英超同义词与占位词归一为 DefaultCompetition，其余原样返回
func CanonicalizeCompetition(text string) string {
	if strings.TrimSpace(text) == "" {
		return DefaultCompetition
	}
	s := Sanitize(text)
	if strings.Contains(s, "premierleague") || s == "epl" {
		return DefaultCompetition
	}
	for _, token := range placeholderTokens {
		if strings.Contains(s, token) {
			return DefaultCompetition
		}
	}
	return text
}
