package naming

// AliasTable 规范化键 -> 展示名，启动时构建一次，运行期只读
type AliasTable struct {
	entries map[string]string
}

// NewAliasTable 由 “任意写法 -> 展示名” 构建别名表，键统一经过 Sanitize
func NewAliasTable(aliases map[string]string) *AliasTable {
	entries := make(map[string]string, len(aliases))
	for k, v := range aliases {
		entries[Sanitize(k)] = v
	}
	return &AliasTable{entries: entries}
}

// Resolve 命中返回展示名，未命中原样返回（未知球队不算错误）
func (t *AliasTable) Resolve(name string) string {
	if t == nil {
		return name
	}
	if canonical, ok := t.entries[Sanitize(name)]; ok {
		return canonical
	}
	return name
}

// Len 别名条数
func (t *AliasTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// DefaultTeamAliases 英超常见简称
var DefaultTeamAliases = NewAliasTable(map[string]string{
	"arsenal":            "Arsenal FC",
	"arsenalfc":          "Arsenal FC",
	"chelsea":            "Chelsea FC",
	"chelseafc":          "Chelsea FC",
	"liverpool":          "Liverpool FC",
	"liverpoolfc":        "Liverpool FC",
	"mancity":            "Manchester City",
	"manchestercity":     "Manchester City",
	"manc":               "Manchester City",
	"manutd":             "Manchester United",
	"manunited":          "Manchester United",
	"manchesterunited":   "Manchester United",
	"spurs":              "Tottenham Hotspur",
	"tottenham":          "Tottenham Hotspur",
	"tottenhamhotspur":   "Tottenham Hotspur",
	"brighton":           "Brighton & Hove Albion",
	"brightonhovealbion": "Brighton & Hove Albion",
	"nottinghamforest":   "Nottingham Forest",
	"nottsforest":        "Nottingham Forest",
	"nforest":            "Nottingham Forest",
	"westham":            "West Ham United",
	"westhamunited":      "West Ham United",
	"wolves":             "Wolverhampton Wanderers",
	"wolverhampton":      "Wolverhampton Wanderers",
})
