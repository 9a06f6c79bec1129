package conf

import (
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
	"os"
	"time"
)

// 配置加载

type BoardConfig struct {
	URL        string `yaml:"url" validate:"required,url"`
	TopLimit   int    `yaml:"top-limit" validate:"gte=1,lte=500"`
	MaxRecords int    `yaml:"max-records" validate:"gtefield=TopLimit"` // 缓存中保留的最大条数，请求时再按 limit 截取
	// 排行榜缓存有效期
	CacheTTL time.Duration `yaml:"cache-ttl" validate:"gt=0"`
	// 后台定时刷新间隔，0 表示不启用
	RefreshInterval time.Duration `yaml:"refresh-interval"`
	// 每次成功抓取追加写入的历史文件（JSON Lines），空表示不记录
	HistoryFile string `yaml:"history-file"`
}

type BrowserConfig struct {
	ExecPath       string `yaml:"exec-path"`
	ShowWindow     bool   `yaml:"show-window"`
	UserAgent      string `yaml:"user-agent"`
	BlockResources bool   `yaml:"block-resources"` // 拦截图片/字体/媒体请求

	NavigateTimeout time.Duration `yaml:"navigate-timeout" validate:"gt=0"`
	SettleQuiet     time.Duration `yaml:"settle-quiet" validate:"gt=0"` // 网络静默多久算页面稳定
	SettleMax       time.Duration `yaml:"settle-max" validate:"gtefield=SettleQuiet"`
	HardTimeout     time.Duration `yaml:"hard-timeout" validate:"gtefield=NavigateTimeout"` // 一次抓取的总时长上限

	// 点击表头强制按该列降序，空字符串表示不点击
	SortHeaderText string        `yaml:"sort-header-text"`
	SortClicks     int           `yaml:"sort-clicks" validate:"gte=0,lte=5"`
	SortWait       time.Duration `yaml:"sort-wait"`

	CaptureMaxResponses int `yaml:"capture-max-responses" validate:"gte=0"`
	CaptureMaxBytes     int `yaml:"capture-max-bytes" validate:"gte=0"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	FileName   string `yaml:"file-name"`
	TimeFormat string `yaml:"time-format"`
	MaxSize    int    `yaml:"max-size"`
	MaxBackups int    `yaml:"max-backups"`
	MaxAge     int    `yaml:"max-age"`
	Compress   bool   `yaml:"compress"`
	LocalTime  bool   `yaml:"local-time"`
	Console    bool   `yaml:"console"`
}

// RedisConfig is used to configure redis
type RedisConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Addr         string `yaml:"address" validate:"required_if=Enabled true"`
	Password     string `yaml:"password"`
	Db           int    `yaml:"db"`
	PoolSize     int    `yaml:"pool-size"`
	MinIdleConns int    `yaml:"min-idle-conns"`
	IdleTimeout  int    `yaml:"idle-timeout"`
	Key          string `yaml:"key"` // 排行榜快照镜像的key
}

type Config struct {
	AppName      string `yaml:"app_name"`
	Listen       string `yaml:"listen" validate:"required"`
	Mode         string `yaml:"mode"`
	Language     string `yaml:"language" validate:"oneof=en zh"` // 参数校验错误提示的默认语言
	MaxPingCount int    `yaml:"max-ping-count"`

	Board   BoardConfig   `yaml:"board"`
	Browser BrowserConfig `yaml:"browser"`
	Log     LogConfig     `yaml:"log"`
	Redis   RedisConfig   `yaml:"redis"`
}

const (
	DefaultBoardURL  = "https://hyperdash.info/top-traders"
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

var AppConfig Config

func LoadConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("Read config file error %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return err
	}
	AppConfig = *cfg
	return nil
}

// Parse 解析yaml，叠加 .env 和环境变量，填充默认值并校验
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("Unmarshal config yaml error: %w", err)
	}

	// .env 不存在时忽略
	_ = godotenv.Load()
	cfg.applyEnv()
	cfg.ApplyDefaults()

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("Validate config error: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("BOARD_URL"); v != "" {
		c.Board.URL = v
	}
	if v := os.Getenv("TOP_LIMIT"); v != "" {
		c.Board.TopLimit = cast.ToInt(v)
	}
	if v := os.Getenv("CACHE_TTL_SEC"); v != "" {
		c.Board.CacheTTL = time.Duration(cast.ToInt64(v)) * time.Second
	}
	if v := os.Getenv("AUTO_INTERVAL_MIN"); v != "" {
		c.Board.RefreshInterval = time.Duration(cast.ToInt64(v)) * time.Minute
	}
	if v := os.Getenv("LISTEN"); v != "" {
		c.Listen = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("BROWSER_EXEC_PATH"); v != "" {
		c.Browser.ExecPath = v
	}
}

func (c *Config) ApplyDefaults() {
	if c.AppName == "" {
		c.AppName = "hyperboard"
	}
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.MaxPingCount == 0 {
		c.MaxPingCount = 10
	}
	if c.Language == "" {
		c.Language = "en"
	}

	b := &c.Board
	if b.URL == "" {
		b.URL = DefaultBoardURL
	}
	if b.TopLimit == 0 {
		b.TopLimit = 20
	}
	if b.MaxRecords < b.TopLimit {
		b.MaxRecords = b.TopLimit
	}
	if b.CacheTTL == 0 {
		b.CacheTTL = 300 * time.Second
	}

	br := &c.Browser
	if br.UserAgent == "" {
		br.UserAgent = DefaultUserAgent
	}
	if br.NavigateTimeout == 0 {
		br.NavigateTimeout = 30 * time.Second
	}
	if br.SettleQuiet == 0 {
		br.SettleQuiet = 500 * time.Millisecond
	}
	if br.SettleMax == 0 {
		br.SettleMax = 10 * time.Second
	}
	if br.SettleMax < br.SettleQuiet {
		br.SettleMax = br.SettleQuiet
	}
	if br.HardTimeout == 0 {
		br.HardTimeout = 60 * time.Second
	}
	if br.HardTimeout < br.NavigateTimeout {
		br.HardTimeout = br.NavigateTimeout
	}
	if br.SortClicks == 0 && br.SortHeaderText != "" {
		br.SortClicks = 2
	}
	if br.SortWait == 0 {
		br.SortWait = 1600 * time.Millisecond
	}
	if br.CaptureMaxResponses == 0 {
		br.CaptureMaxResponses = 64
	}
	if br.CaptureMaxBytes == 0 {
		br.CaptureMaxBytes = 4 << 20
	}

	if c.Redis.Key == "" {
		c.Redis.Key = "board:top:latest"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
