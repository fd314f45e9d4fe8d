package repository

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"FixtureSync/internal/model"
)

// 手工编辑或外部写入的文档形态并不总是规范的：id 可能是数字，比分可能是字符串，
// last_updated 可能不是 RFC3339。下面的宽松类型把这些记录原样读进来，交给规范化处理。

// looseDocument 宽松的 MatchData
type looseDocument struct {
	LastUpdated looseTime    `json:"last_updated"`
	Matches     []looseMatch `json:"matches"`
}

type looseMatch struct {
	ID          looseString `json:"id"`
	Date        looseString `json:"date"`
	Competition looseString `json:"competition"`
	HomeTeam    *looseTeam  `json:"home_team"`
	AwayTeam    *looseTeam  `json:"away_team"`
}

type looseTeam struct {
	Name    looseString      `json:"name"`
	LogoURL looseString      `json:"logo_url"`
	Score   model.ScoreInput `json:"score"`
}

// looseString 字符串原样保留，数字 / 布尔取字面值，null、对象、数组视为空串
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	switch {
	case raw == "null", strings.HasPrefix(raw, "{"), strings.HasPrefix(raw, "["):
		*s = ""
	case strings.HasPrefix(raw, `"`):
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = looseString(str)
	default:
		*s = looseString(raw)
	}
	return nil
}

// UnmarshalJSON 队伍写成字符串时当作队名
func (t *looseTeam) UnmarshalJSON(b []byte) error {
	raw := bytes.TrimSpace(b)
	switch {
	case len(raw) > 0 && raw[0] == '{':
		type plain looseTeam
		var p plain
		if err := json.Unmarshal(raw, &p); err != nil {
			return err
		}
		*t = looseTeam(p)
	case len(raw) > 0 && raw[0] == '"':
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return err
		}
		*t = looseTeam{Name: looseString(name)}
	default:
		*t = looseTeam{}
	}
	return nil
}

// 可识别的 last_updated 写法
var looseTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// looseTime 无法识别的时间视为未设置，不报错；数字按毫秒时间戳处理
type looseTime struct {
	t *time.Time
}

func (lt *looseTime) UnmarshalJSON(b []byte) error {
	lt.t = nil
	raw := strings.TrimSpace(string(b))
	if raw == "null" || raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return nil
		}
		for _, layout := range looseTimeLayouts {
			if t, err := time.Parse(layout, strings.TrimSpace(str)); err == nil {
				t = t.UTC()
				lt.t = &t
				return nil
			}
		}
		return nil
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		t := time.UnixMilli(ms).UTC()
		lt.t = &t
	}
	return nil
}

// decodeMatchData 宽松解析整份文档。只有 JSON 本身损坏（或 matches 不是数组）才返回错误
func decodeMatchData(raw []byte) (*model.MatchData, error) {
	var doc looseDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	data := &model.MatchData{LastUpdated: doc.LastUpdated.t, Matches: make([]model.Match, 0, len(doc.Matches))}
	for _, m := range doc.Matches {
		data.Matches = append(data.Matches, m.toMatch())
	}
	return data, nil
}

// decodeMatchList 宽松解析比赛数组（文档库 jsonb 列）
func decodeMatchList(raw []byte) ([]model.Match, error) {
	var list []looseMatch
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	out := make([]model.Match, 0, len(list))
	for _, m := range list {
		out = append(out, m.toMatch())
	}
	return out, nil
}

func (m looseMatch) toMatch() model.Match {
	return model.Match{
		ID:          strings.TrimSpace(string(m.ID)),
		Date:        string(m.Date),
		Competition: string(m.Competition),
		HomeTeam:    m.HomeTeam.toTeam(),
		AwayTeam:    m.AwayTeam.toTeam(),
	}
}

func (t *looseTeam) toTeam() *model.Team {
	if t == nil {
		return nil
	}
	return &model.Team{Name: string(t.Name), LogoURL: string(t.LogoURL), Score: t.Score.Value}
}
