package model

import "time"

// Team 比赛中的一方
type Team struct {
	Name    string `json:"name" dynamodbav:"name"`
	LogoURL string `json:"logo_url" dynamodbav:"logo_url"`
	Score   *int   `json:"score" dynamodbav:"score"` // 未开赛为 null
}

// Match 单场比赛；Date 为 YYYY-MM-DD
type Match struct {
	ID          string `json:"id" dynamodbav:"id"`
	Date        string `json:"date" dynamodbav:"date"`
	Competition string `json:"competition" dynamodbav:"competition"`
	HomeTeam    *Team  `json:"home_team,omitempty" dynamodbav:"home_team,omitempty"`
	AwayTeam    *Team  `json:"away_team,omitempty" dynamodbav:"away_team,omitempty"`
}

// Clone 深拷贝（队伍与比分指针不共享）
func (m Match) Clone() Match {
	out := m
	out.HomeTeam = m.HomeTeam.clone()
	out.AwayTeam = m.AwayTeam.clone()
	return out
}

func (t *Team) clone() *Team {
	if t == nil {
		return nil
	}
	out := *t
	if t.Score != nil {
		s := *t.Score
		out.Score = &s
	}
	return &out
}

// MatchData 整份比赛数据文档（文件 / 文档库中保存的就是它）
type MatchData struct {
	LastUpdated *time.Time `json:"last_updated" dynamodbav:"last_updated"`
	Matches     []Match    `json:"matches" dynamodbav:"matches"`
}

// EnsureStructure 补齐缺失字段，nil 返回空文档
func EnsureStructure(d *MatchData) *MatchData {
	if d == nil {
		return &MatchData{Matches: []Match{}}
	}
	if d.Matches == nil {
		d.Matches = []Match{}
	}
	return d
}

// Board GET /api/matches 的返回结构
type Board struct {
	LastUpdated *time.Time `json:"last_updated"`
	Today       []Match    `json:"today_matches"`
	Last        []Match    `json:"last_matches"`
	Next        []Match    `json:"next_matches"`
}
