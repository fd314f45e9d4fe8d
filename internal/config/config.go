package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`     // 服务器配置
	Log       LogConfig       `mapstructure:"log"`        // 日志配置
	Postgres  PostgresConfig  `mapstructure:"postgres"`   // PostgreSQL配置（文档存储）
	DynamoDB  DynamoDBConfig  `mapstructure:"dynamodb"`   // DynamoDB配置（文档存储）
	Storage   StorageConfig   `mapstructure:"storage"`    // 比赛数据存储配置
	Logo      LogoConfig      `mapstructure:"logo"`       // 队徽目录配置
	Board     BoardConfig     `mapstructure:"board"`      // 赛程窗口配置
	Agent     AgentConfig     `mapstructure:"agent"`      // 文本生成（Gemini）配置
	Security  SecurityConfig  `mapstructure:"security"`   // /api 访问保护
	Sync      SyncConfig      `mapstructure:"sync"`       // 定时规范化调度
	PublicDir string          `mapstructure:"public_dir"` // 前端静态文件目录
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port        int      `mapstructure:"port"`         // 服务端口
	Mode        string   `mapstructure:"mode"`         // Gin运行模式：debug/release/test
	CORSOrigins []string `mapstructure:"cors_origins"` // 允许的跨域来源，空表示不启用CORS
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `mapstructure:"level"` // debug/info/warn/error
}

// PostgresConfig PostgreSQL数据库配置
type PostgresConfig struct {
	DSN             string        `mapstructure:"dsn"`               // 连接DSN
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
}

// DynamoDBConfig DynamoDB 文档存储配置
type DynamoDBConfig struct {
	Table  string `mapstructure:"table"`  // 表名
	Region string `mapstructure:"region"` // 区域，空则用 AWS_REGION
}

// 存储后端
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendDynamoDB = "dynamodb"
)

// StorageConfig 比赛数据存储配置
type StorageConfig struct {
	Backend     string `mapstructure:"backend"`      // file/postgres/dynamodb；非file时文件作为备份镜像
	MatchesFile string `mapstructure:"matches_file"` // 本地 matches.json 路径
	DocumentKey string `mapstructure:"document_key"` // 文档主键，默认 matches/data
	ReadOnly    bool   `mapstructure:"read_only"`    // 只读文件系统（如 Vercel），跳过写文件
}

// LogoConfig 队徽目录配置
type LogoConfig struct {
	Root        string `mapstructure:"root"`         // 队徽根目录，每个联赛一个子目录
	URLPrefix   string `mapstructure:"url_prefix"`   // 返回路径前缀，默认 logo
	MaxDistance int    `mapstructure:"max_distance"` // 模糊匹配最大编辑距离
	Watch       bool   `mapstructure:"watch"`        // 是否缓存目录并用 fsnotify 监听变化
}

// BoardConfig 赛程窗口配置
type BoardConfig struct {
	PastDays int    `mapstructure:"past_days"` // 往前展示的天数
	NextDays int    `mapstructure:"next_days"` // 往后展示的天数
	Timezone string `mapstructure:"timezone"`  // 计算“今天”所用时区，空则本地时区
}

// AgentConfig 文本生成配置
type AgentConfig struct {
	APIKey     string `mapstructure:"api_key"`     // GOOGLE_API_KEY
	Model      string `mapstructure:"model"`       // 模型名，默认 gemini-2.5-flash
	APIVersion string `mapstructure:"api_version"` // v1 / v1beta
	BaseURL    string `mapstructure:"base_url"`    // API基础地址
	Timeout    int    `mapstructure:"timeout"`     // 请求超时（秒）
	Proxy      string `mapstructure:"proxy"`       // 代理地址
}

// SecurityConfig /api 访问保护配置
type SecurityConfig struct {
	APISecret   string `mapstructure:"api_secret"`   // 共享密钥，空表示仅拦截浏览器直接访问
	BlockedPage string `mapstructure:"blocked_page"` // 被拦截时返回的页面
}

// SyncConfig 同步调度配置
type SyncConfig struct {
	Cron string `mapstructure:"cron"` // 定时规范化的Cron表达式，空则不启用
}

// LoadConfig 加载配置文件（config/config.yaml），敏感项从 .env 覆盖（不提交 git）
func LoadConfig() (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	// 2. 读取 config.yaml
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	setDefaults(v)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	v.SetTypeByDefaultValue(true)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 3. 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults 配置文件缺失时的默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime", time.Hour)
	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.matches_file", "matches.json")
	v.SetDefault("storage.document_key", "matches/data")
	v.SetDefault("logo.root", "logo")
	v.SetDefault("logo.url_prefix", "logo")
	v.SetDefault("logo.max_distance", 3)
	v.SetDefault("board.past_days", 7)
	v.SetDefault("board.next_days", 7)
	v.SetDefault("agent.model", "gemini-2.5-flash")
	v.SetDefault("agent.api_version", "v1")
	v.SetDefault("agent.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("agent.timeout", 30)
	v.SetDefault("security.blocked_page", "public/kosong.html")
	v.SetDefault("public_dir", "public")
}

// overrideFromEnv 用环境变量覆盖敏感配置
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		cfg.Agent.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.Agent.Model = v
	}
	if v := os.Getenv("GEMINI_API_VERSION"); v != "" {
		cfg.Agent.APIVersion = v
	}
	if v := os.Getenv("GEMINI_PROXY"); v != "" {
		cfg.Agent.Proxy = v
	}
	// 两种写法都兼容（部分平台不允许变量名带“-”）
	if v := os.Getenv("SECRET-MY"); v != "" {
		cfg.Security.APISecret = v
	} else if v := os.Getenv("SECRET_MY"); v != "" {
		cfg.Security.APISecret = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" && cfg.DynamoDB.Region == "" {
		cfg.DynamoDB.Region = v
	}
	// Vercel 等无服务器平台文件系统只读
	if os.Getenv("VERCEL") != "" {
		cfg.Storage.ReadOnly = true
	}
}

// Location 返回赛程计算使用的时区
func (b *BoardConfig) Location() *time.Location {
	if b.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// GetGORMConfig 获取PostgreSQL配置（适配GORM）
func (p *PostgresConfig) GetGORMConfig() gorm.Config {
	return gorm.Config{} // 可扩展：添加日志、命名策略等
}
