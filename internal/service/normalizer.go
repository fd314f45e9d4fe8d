package service

import (
	"reflect"

	"FixtureSync/internal/logo"
	"FixtureSync/internal/model"
	"FixtureSync/internal/naming"

	"github.com/google/uuid"
)

// LogoFinder 队徽查找（logo.Resolver 实现）
type LogoFinder interface {
	FindLogo(teamName, competition string) logo.Resolution
}

// Normalizer 比赛记录规范化：补 id、联赛名归一、补缺失的队徽。
// 每次读写都会跑一遍，外部写入或手工编辑的记录由此收敛到统一格式。
type Normalizer struct {
	aliases *naming.AliasTable
	logos   LogoFinder
	newID   func() string
}

func NewNormalizer(aliases *naming.AliasTable, logos LogoFinder) *Normalizer {
	return &Normalizer{
		aliases: aliases,
		logos:   logos,
		newID:   uuid.NewString,
	}
}

// NormalizeMatch 返回规范化后的副本，不修改入参。
// 已有的 id、date、score 与非空 logo_url 不会被改动。
func (n *Normalizer) NormalizeMatch(m model.Match) model.Match {
	out := m.Clone()
	if out.ID == "" {
		out.ID = n.newID()
	}
	out.Competition = naming.CanonicalizeCompetition(out.Competition)
	for _, team := range []*model.Team{out.HomeTeam, out.AwayTeam} {
		if team != nil && team.LogoURL == "" {
			team.LogoURL = n.ResolveLogo(team.Name, out.Competition)
		}
	}
	return out
}

// NormalizeAll 规范化整个列表，changed 表示是否有记录发生变化（需要回写存储）
func (n *Normalizer) NormalizeAll(matches []model.Match) ([]model.Match, bool) {
	out := make([]model.Match, len(matches))
	changed := false
	for i, m := range matches {
		out[i] = n.NormalizeMatch(m)
		if !reflect.DeepEqual(out[i], m) {
			changed = true
		}
	}
	return out, changed
}

// ResolveLogo 用别名后的队名查找队徽，找不到返回空串
func (n *Normalizer) ResolveLogo(teamName, competition string) string {
	if n.logos == nil {
		return ""
	}
	return n.logos.FindLogo(n.aliases.Resolve(teamName), competition).URL()
}
