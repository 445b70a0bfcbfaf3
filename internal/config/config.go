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
	Server   ServerConfig           `mapstructure:"server"`   // 服务器配置
	Database DatabaseConfig         `mapstructure:"database"` // PostgreSQL配置
	Ingest   IngestConfig           `mapstructure:"ingest"`   // 摄入目录配置
	Stores   map[string]StoreConfig `mapstructure:"stores"`   // 多商店独立配置
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

// IngestConfig 摄入目录配置。抓取器（外部协作方）往 output_dir 下的
// 各店子目录丢原始快照文件，摄入完整提交后移入 backup_dir 归档。
type IngestConfig struct {
	OutputDir string `mapstructure:"output_dir"` // 待处理文件根目录
	BackupDir string `mapstructure:"backup_dir"` // 已消费文件归档目录
}

// StoreConfig 单个商店的独立配置
type StoreConfig struct {
	Enabled        bool   `mapstructure:"enabled"`         // 是否参与摄入
	InputDir       string `mapstructure:"input_dir"`       // 子目录名（默认同商店名）
	PricePrefix    string `mapstructure:"price_prefix"`    // 价格快照文件前缀（如 on_sale）
	BundlePrefix   string `mapstructure:"bundle_prefix"`   // 捆绑包文件前缀，不支持捆绑包的店留空
	CatalogPrefix  string `mapstructure:"catalog_prefix"`  // 目录元数据文件前缀（steam 的 appinfo）
	WishlistPrefix string `mapstructure:"wishlist_prefix"` // 愿望单文件前缀（steam 的 wishlist）
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
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	return &cfg, nil
}
