package logo

import (
	"math"
	"path"
	"path/filepath"
	"strings"

	"FixtureSync/internal/config"
	"FixtureSync/internal/naming"

	"github.com/sirupsen/logrus"
)

// DefaultMaxDistance 模糊匹配可接受的最大编辑距离（容忍 "ManCity" / "Man City" 之类的小差异）
const DefaultMaxDistance = 3

// Resolution 队徽查找结果；Resolved 为 false 表示没有足够接近的文件，调用方按无队徽处理
type Resolution struct {
	Path     string // 相对路径，如 logo/Premier League/Arsenal FC.png
	Distance int    // 与目标名的编辑距离，精确命中为 0
	Resolved bool
}

// URL 未命中时返回空串
func (r Resolution) URL() string {
	if !r.Resolved {
		return ""
	}
	return r.Path
}

// Resolver 按球队名 + 联赛提示在队徽目录中查找最匹配的文件
type Resolver struct {
	catalog     Catalog
	aliases     *naming.AliasTable
	urlPrefix   string
	maxDistance int
	logger      *logrus.Logger
}

// NewResolver 创建 Resolver；cfg.MaxDistance <= 0 时使用默认阈值
func NewResolver(catalog Catalog, aliases *naming.AliasTable, cfg *config.LogoConfig, logger *logrus.Logger) *Resolver {
	maxDistance := cfg.MaxDistance
	if maxDistance <= 0 {
		maxDistance = DefaultMaxDistance
	}
	prefix := cfg.URLPrefix
	if prefix == "" {
		prefix = "logo"
	}
	return &Resolver{
		catalog:     catalog,
		aliases:     aliases,
		urlPrefix:   prefix,
		maxDistance: maxDistance,
		logger:      logger,
	}
}

// FindLogo 先精确匹配（命中即返回），否则取编辑距离最小且不超过阈值的文件。
// 目录读取失败只记日志并返回未命中，不向上抛错。
func (r *Resolver) FindLogo(teamName, competition string) Resolution {
	// 空名称同样参与扫描，足够短的文件名仍可能落在阈值内
	target := naming.Sanitize(r.aliases.Resolve(teamName))

	leagues, err := r.catalog.Leagues()
	if err != nil {
		r.logger.WithError(err).WithField("team", teamName).Error("查找队徽失败")
		return Resolution{}
	}

	best := Resolution{Distance: math.MaxInt}
	for _, league := range r.candidateLeagues(leagues, competition) {
		files, err := r.catalog.Files(league)
		if err != nil {
			r.logger.WithError(err).WithFields(logrus.Fields{
				"team":   teamName,
				"league": league,
			}).Error("查找队徽失败")
			return Resolution{}
		}
		for _, f := range files {
			key := naming.Sanitize(strings.TrimSuffix(f, filepath.Ext(f)))
			if key == target {
				return Resolution{Path: r.logoPath(league, f), Distance: 0, Resolved: true}
			}
			// 超过阈值的候选不影响结果，有界计算即可
			d, _ := naming.BoundedDistance(key, target, r.maxDistance)
			if d < best.Distance {
				best = Resolution{Path: r.logoPath(league, f), Distance: d}
			}
		}
	}

	if best.Path != "" && best.Distance <= r.maxDistance {
		best.Resolved = true
		return best
	}
	return Resolution{}
}

// candidateLeagues 目录名包含联赛关键字的优先；一个都不匹配时搜索全部联赛
func (r *Resolver) candidateLeagues(leagues []string, competition string) []string {
	key := naming.Sanitize(competition)
	if key == "" {
		return leagues
	}
	var matched []string
	for _, l := range leagues {
		if strings.Contains(naming.Sanitize(l), key) {
			matched = append(matched, l)
		}
	}
	if len(matched) == 0 {
		return leagues
	}
	return matched
}

func (r *Resolver) logoPath(league, file string) string {
	return path.Join(r.urlPrefix, league, file)
}
