package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server    ServerConfig              `mapstructure:"server"`    // 服务器配置
	Database  DatabaseConfig            `mapstructure:"database"`  // PostgreSQL配置
	Import    ImportConfig              `mapstructure:"import"`    // 批量导入配置
	Providers map[string]ProviderConfig `mapstructure:"providers"` // 多数据源独立配置
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `mapstructure:"port"` // 服务端口
	Mode string `mapstructure:"mode"` // Gin运行模式：debug/release/test
}

// DatabaseConfig PostgreSQL数据库配置
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`               // 连接DSN
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
}

// ImportConfig 批量导入配置
type ImportConfig struct {
	BatchSize      int `mapstructure:"batch_size"`       // 单批写入行数（默认500）
	BatchDelayMs   int `mapstructure:"batch_delay_ms"`   // 批间停顿毫秒数（默认100）
	MaxRetries     int `mapstructure:"max_retries"`      // 超时类错误最大尝试次数（默认3）
	BackoffBaseMs  int `mapstructure:"backoff_base_ms"`  // 退避基数毫秒（第n次重试前睡 base*n）
	ProgressStepMb int `mapstructure:"progress_step_mb"` // 下载进度日志间隔（MB）
}

// ProviderConfig 单个数据源的独立配置
type ProviderConfig struct {
	BaseURL       string `mapstructure:"base_url"`        // API基础地址
	BulkPath      string `mapstructure:"bulk_path"`       // Scryfall批量数据清单路径
	PriceGuideURL string `mapstructure:"price_guide_url"` // CardMarket价格指南完整地址（固定URL）
	Timeout       int    `mapstructure:"timeout"`         // 请求超时（秒）
	Proxy         string `mapstructure:"proxy"`           // 代理地址
}

// LoadConfig 加载配置文件（config/config.yaml），敏感项从 .env 覆盖（不提交 git）
func LoadConfig() (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	// 2. 读取 config.yaml
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	viper.SetTypeByDefaultValue(true)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 3. 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

// overrideFromEnv 用环境变量覆盖敏感配置
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if s, ok := cfg.Providers["scryfall"]; ok {
		if v := os.Getenv("SCRYFALL_PROXY"); v != "" {
			s.Proxy = v
		}
		cfg.Providers["scryfall"] = s
	}
	if c, ok := cfg.Providers["cardmarket"]; ok {
		if v := os.Getenv("CARDMARKET_PROXY"); v != "" {
			c.Proxy = v
		}
		cfg.Providers["cardmarket"] = c
	}
}

// applyDefaults 导入参数缺省值兜底（配置缺失时按源站约定取默认）
func applyDefaults(cfg *Config) {
	if cfg.Import.BatchSize <= 0 {
		cfg.Import.BatchSize = 500
	}
	if cfg.Import.BatchDelayMs <= 0 {
		cfg.Import.BatchDelayMs = 100
	}
	if cfg.Import.MaxRetries <= 0 {
		cfg.Import.MaxRetries = 3
	}
	if cfg.Import.BackoffBaseMs <= 0 {
		cfg.Import.BackoffBaseMs = 2000
	}
	if cfg.Import.ProgressStepMb <= 0 {
		cfg.Import.ProgressStepMb = 5
	}
}
