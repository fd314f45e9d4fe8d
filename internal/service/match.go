package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"FixtureSync/internal/config"
	"FixtureSync/internal/interfaces"
	"FixtureSync/internal/model"
	"FixtureSync/internal/naming"

	"github.com/sirupsen/logrus"
)

// MatchService 比赛增删改查。内存中的列表是进程内的权威副本，每次修改后写回存储。
type MatchService struct {
	store      interfaces.MatchStore
	normalizer *Normalizer
	pastDays   int
	nextDays   int
	loc        *time.Location
	logger     *logrus.Logger
	now        func() time.Time

	mu   sync.Mutex
	data *model.MatchData
}

// NewMatchService 创建 MatchService，需调用 Load 加载数据
func NewMatchService(store interfaces.MatchStore, normalizer *Normalizer, board *config.BoardConfig, logger *logrus.Logger) *MatchService {
	pastDays, nextDays := board.PastDays, board.NextDays
	if pastDays <= 0 {
		pastDays = 7
	}
	if nextDays <= 0 {
		nextDays = 7
	}
	return &MatchService{
		store:      store,
		normalizer: normalizer,
		pastDays:   pastDays,
		nextDays:   nextDays,
		loc:        board.Location(),
		logger:     logger,
		now:        time.Now,
		data:       model.EnsureStructure(nil),
	}
}

// Load 从存储加载并规范化
func (s *MatchService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

// Save 立即写回存储（启动时确保文档/备份存在）
func (s *MatchService) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

// Sweep 定时任务：检查外部修改并规范化，有变化时回写
func (s *MatchService) Sweep(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked(ctx)
	return nil
}

// Board 按联赛过滤后分成今天 / 过去 N 天 / 未来 N 天三组
func (s *MatchService) Board(ctx context.Context, league string) (*model.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked(ctx)

	today := startOfDay(s.now(), s.loc)
	pastStart := today.AddDate(0, 0, -s.pastDays)
	yesterday := today.AddDate(0, 0, -1)
	tomorrow := today.AddDate(0, 0, 1)
	nextEnd := today.AddDate(0, 0, s.nextDays)

	board := &model.Board{
		LastUpdated: s.data.LastUpdated,
		Today:       []model.Match{},
		Last:        []model.Match{},
		Next:        []model.Match{},
	}
	type dated struct {
		m model.Match
		t time.Time
	}
	var todays, lasts, nexts []dated
	for _, m := range filterByLeague(s.data.Matches, league) {
		t, ok := parseMatchTime(m.Date, s.loc)
		if !ok {
			continue
		}
		day := startOfDay(t, s.loc)
		switch {
		case day.Equal(today):
			todays = append(todays, dated{m.Clone(), t})
		case !day.Before(pastStart) && !day.After(yesterday):
			lasts = append(lasts, dated{m.Clone(), t})
		case !day.Before(tomorrow) && !day.After(nextEnd):
			nexts = append(nexts, dated{m.Clone(), t})
		}
	}

	sort.SliceStable(todays, func(i, j int) bool {
		a, b := todays[i], todays[j]
		if !a.t.Equal(b.t) {
			return a.t.Before(b.t)
		}
		if a.m.Competition != b.m.Competition {
			return a.m.Competition < b.m.Competition
		}
		return teamName(a.m.HomeTeam) < teamName(b.m.HomeTeam)
	})
	sort.SliceStable(lasts, func(i, j int) bool { return lasts[i].t.After(lasts[j].t) })
	sort.SliceStable(nexts, func(i, j int) bool { return nexts[i].t.Before(nexts[j].t) })

	for _, d := range todays {
		board.Today = append(board.Today, d.m)
	}
	for _, d := range lasts {
		board.Last = append(board.Last, d.m)
	}
	for _, d := range nexts {
		board.Next = append(board.Next, d.m)
	}
	return board, nil
}

// Get 按 id 查询
func (s *MatchService) Get(ctx context.Context, id string) (model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked(ctx)

	idx := s.indexOf(id)
	if idx < 0 {
		return model.Match{}, ErrMatchNotFound
	}
	return s.data.Matches[idx].Clone(), nil
}

// Create 新建比赛并保存；date、competition、两队队名必填
func (s *MatchService) Create(ctx context.Context, p model.MatchPayload) (model.Match, error) {
	if p.Date == "" || p.Competition == "" || p.HomeTeamName == "" || p.AwayTeamName == "" {
		return model.Match{}, &ValidationError{Msg: "required fields: date, competition, home_team_name, away_team_name"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked(ctx)
	if p.ID != "" && s.indexOf(p.ID) >= 0 {
		return model.Match{}, &ValidationError{Msg: fmt.Sprintf("match id %s already exists", p.ID)}
	}

	competition := naming.CanonicalizeCompetition(p.Competition)
	m := model.Match{
		ID:          p.ID,
		Date:        p.Date,
		Competition: competition,
		HomeTeam:    s.buildTeam(p.HomeTeamName, p.HomeScore.Value, p.HomeTeamLogoURL, competition),
		AwayTeam:    s.buildTeam(p.AwayTeamName, p.AwayScore.Value, p.AwayTeamLogoURL, competition),
	}
	m = s.normalizer.NormalizeMatch(m)

	s.data.Matches = append(s.data.Matches, m)
	s.sortLocked()
	if err := s.saveLocked(ctx); err != nil {
		return m.Clone(), err
	}
	s.logger.WithFields(logrus.Fields{"id": m.ID, "date": m.Date}).Info("比赛已创建")
	return m.Clone(), nil
}

// Update 非空字段覆盖原值；比分仅在请求中给出时覆盖
func (s *MatchService) Update(ctx context.Context, id string, p model.MatchPayload) (model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked(ctx)

	idx := s.indexOf(id)
	if idx < 0 {
		return model.Match{}, ErrMatchNotFound
	}
	current := s.data.Matches[idx]

	merged := current.Clone()
	if p.Date != "" {
		merged.Date = p.Date
	}
	if p.Competition != "" {
		merged.Competition = p.Competition
	}
	merged.Competition = naming.CanonicalizeCompetition(merged.Competition)
	merged.HomeTeam = s.mergeTeam(current.HomeTeam, p.HomeTeamName, p.HomeScore, p.HomeTeamLogoURL, merged.Competition)
	merged.AwayTeam = s.mergeTeam(current.AwayTeam, p.AwayTeamName, p.AwayScore, p.AwayTeamLogoURL, merged.Competition)
	merged = s.normalizer.NormalizeMatch(merged)

	s.data.Matches[idx] = merged
	s.sortLocked()
	if err := s.saveLocked(ctx); err != nil {
		return merged.Clone(), err
	}
	s.logger.WithField("id", id).Info("比赛已更新")
	return merged.Clone(), nil
}

// Delete 删除并返回被删除的比赛
func (s *MatchService) Delete(ctx context.Context, id string) (model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked(ctx)

	idx := s.indexOf(id)
	if idx < 0 {
		return model.Match{}, ErrMatchNotFound
	}
	deleted := s.data.Matches[idx].Clone()
	s.data.Matches = append(s.data.Matches[:idx], s.data.Matches[idx+1:]...)
	if err := s.saveLocked(ctx); err != nil {
		return deleted, err
	}
	s.logger.WithField("id", id).Info("比赛已删除")
	return deleted, nil
}

func (s *MatchService) loadLocked(ctx context.Context) error {
	data, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("加载比赛数据失败: %w", err)
	}
	data = model.EnsureStructure(data)
	var changed bool
	data.Matches, changed = s.normalizer.NormalizeAll(data.Matches)
	s.data = data
	if changed {
		// 加载时补齐的 id / 队徽立即回写，失败不影响读取
		if err := s.saveLocked(ctx); err != nil {
			s.logger.WithError(err).Warn("加载后回写规范化结果失败")
		}
	}
	return nil
}

func (s *MatchService) saveLocked(ctx context.Context) error {
	now := s.now().UTC()
	s.data.LastUpdated = &now
	if err := s.store.Save(ctx, s.data); err != nil {
		s.logger.WithError(err).Error("保存比赛数据失败")
		return fmt.Errorf("保存比赛数据失败: %w", err)
	}
	return nil
}

// refreshLocked 存储被外部修改时重新加载，然后规范化；有变化才回写。失败只记日志。
func (s *MatchService) refreshLocked(ctx context.Context) {
	if cd, ok := s.store.(interfaces.ChangeDetector); ok && cd.Changed() {
		s.logger.Info("检测到比赛数据被外部修改，重新加载")
		if err := s.loadLocked(ctx); err != nil {
			s.logger.WithError(err).Error("重新加载比赛数据失败")
		}
	}

	normalized, changed := s.normalizer.NormalizeAll(s.data.Matches)
	s.data.Matches = normalized
	if !changed {
		return
	}
	if err := s.saveLocked(ctx); err != nil {
		s.logger.WithError(err).Error("自动规范化后保存失败")
		return
	}
	s.logger.Info("自动规范化比赛数据完成")
}

func (s *MatchService) indexOf(id string) int {
	for i, m := range s.data.Matches {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// sortLocked 按日期升序（稳定），日期无法解析的排在最后
func (s *MatchService) sortLocked() {
	sort.SliceStable(s.data.Matches, func(i, j int) bool {
		a, okA := parseMatchTime(s.data.Matches[i].Date, s.loc)
		b, okB := parseMatchTime(s.data.Matches[j].Date, s.loc)
		if okA != okB {
			return okA
		}
		return okA && a.Before(b)
	})
}

// buildTeam 显式给出的队徽优先，否则按队名查找
func (s *MatchService) buildTeam(name string, score *int, logoURL, competition string) *model.Team {
	if logoURL == "" {
		logoURL = s.normalizer.ResolveLogo(name, competition)
	}
	return &model.Team{Name: name, LogoURL: logoURL, Score: score}
}

// mergeTeam 更新时合并一方队伍；改了队名且未指定队徽时重新查找
func (s *MatchService) mergeTeam(current *model.Team, name string, score model.ScoreInput, logoURL, competition string) *model.Team {
	var cur model.Team
	if current != nil {
		cur = *current
	}
	if name == "" {
		name = cur.Name
	}
	var finalScore *int
	if cur.Score != nil {
		v := *cur.Score
		finalScore = &v
	}
	if score.Set {
		finalScore = score.Value
	}
	if logoURL == "" && name == cur.Name {
		logoURL = cur.LogoURL
	}
	return s.buildTeam(name, finalScore, logoURL, competition)
}

func filterByLeague(matches []model.Match, league string) []model.Match {
	if league == "" {
		return matches
	}
	target := naming.Sanitize(naming.CanonicalizeCompetition(league))
	var out []model.Match
	for _, m := range matches {
		comp := naming.Sanitize(naming.CanonicalizeCompetition(m.Competition))
		if strings.Contains(comp, target) || strings.Contains(target, comp) {
			out = append(out, m)
		}
	}
	return out
}

// 比赛日期可接受的格式；纯日期按配置时区解析
var matchDateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseMatchTime(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), true
	}
	for _, layout := range matchDateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func teamName(t *model.Team) string {
	if t == nil {
		return ""
	}
	return t.Name
}
