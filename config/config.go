package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/namada-hub/block-hub/cache"
)

type Config struct {
	LogConfig     LogConfig     `json:"log_config"`
	DBConfig      DBConfig      `json:"db_config"`
	ServerConfig  ServerConfig  `json:"server_config"`
	NodeConfig    NodeConfig    `json:"node_config"`
	CacheConfig   CacheConfig   `json:"cache_config"`
	MetricsConfig MetricsConfig `json:"metrics_config"`
}

type ServerConfig struct {
	ListenAddr    string `json:"listen_addr"`
	ChecksumsPath string `json:"checksums_path"` // path to the chain's checksums.json artifact
}

func (cfg *ServerConfig) Validate() {
	if cfg.ListenAddr == "" {
		panic("server listen_addr should not be empty")
	}
	if cfg.ChecksumsPath == "" {
		panic("checksums_path should not be empty")
	}
}

type NodeConfig struct {
	RPCAddr          string `json:"rpc_addr"` // RPC address of a live full node, used for epoch queries
	RequestTimeoutMs int64  `json:"request_timeout_ms"`
}

func (cfg *NodeConfig) Validate() {
	if cfg.RPCAddr == "" {
		panic("node rpc_addr should not be empty")
	}
}

func (cfg *NodeConfig) RequestTimeout() time.Duration {
	if cfg.RequestTimeoutMs == 0 {
		return 10 * time.Second
	}
	return time.Duration(cfg.RequestTimeoutMs) * time.Millisecond
}

type CacheConfig struct {
	CacheSize uint64 `json:"cache_size"`
}

func (c *CacheConfig) GetCacheSize() uint64 {
	if c.CacheSize != 0 {
		return c.CacheSize
	}
	return cache.DefaultCacheSize
}

type MetricsConfig struct {
	Enable     bool   `json:"enable"`
	ListenAddr string `json:"listen_addr"`
}

type DBConfig struct {
	Dialect      string `json:"dialect"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	Url          string `json:"url"`
	MaxIdleConns int    `json:"max_idle_conns"`
	MaxOpenConns int    `json:"max_open_conns"`
}

func (cfg *DBConfig) Validate() {
	if cfg.Dialect != DBDialectMysql && cfg.Dialect != DBDialectSqlite3 {
		panic(fmt.Sprintf("only %s and %s supported", DBDialectMysql, DBDialectSqlite3))
	}
	if cfg.Dialect == DBDialectMysql && (cfg.Username == "" || cfg.Url == "") {
		panic("db config is not correct, missing username and/or url")
	}
	if cfg.MaxIdleConns == 0 || cfg.MaxOpenConns == 0 {
		panic("db connections is not correct")
	}
}

type LogConfig struct {
	Level                        string `json:"level"`
	Filename                     string `json:"filename"`
	MaxFileSizeInMB              int    `json:"max_file_size_in_mb"`
	MaxBackupsOfLogFiles         int    `json:"max_backups_of_log_files"`
	MaxAgeToRetainLogFilesInDays int    `json:"max_age_to_retain_log_files_in_days"`
	UseConsoleLogger             bool   `json:"use_console_logger"`
	UseFileLogger                bool   `json:"use_file_logger"`
	Compress                     bool   `json:"compress"`
}

func (cfg *LogConfig) Validate() {
	if cfg.UseFileLogger {
		if cfg.Filename == "" {
			panic("filename should not be empty if use file logger")
		}
		if cfg.MaxFileSizeInMB <= 0 {
			panic("max_file_size_in_mb should be larger than 0 if use file logger")
		}
		if cfg.MaxBackupsOfLogFiles <= 0 {
			panic("max_backups_off_log_files should be larger than 0 if use file logger")
		}
	}
}

func (c *Config) Validate() {
	c.LogConfig.Validate()
	c.DBConfig.Validate()
	c.ServerConfig.Validate()
	c.NodeConfig.Validate()
}

func ParseConfigFromFile(filePath string) *Config {
	bz, err := os.ReadFile(filePath)
	if err != nil {
		panic(err)
	}

	var config Config
	if err := json.Unmarshal(bz, &config); err != nil {
		panic(err)
	}
	config.Validate()
	return &config
}

// InitDBWithConfig opens the block database. The password is passed
// separately so it can come from a flag or the environment instead of the
// config file.
func InitDBWithConfig(cfg *DBConfig, password string) *gorm.DB {
	var dialector gorm.Dialector
	switch cfg.Dialect {
	case DBDialectMysql:
		dbPath := fmt.Sprintf("%s:%s@%s", cfg.Username, password, cfg.Url)
		dialector = mysql.Open(dbPath)
	case DBDialectSqlite3:
		dialector = sqlite.Open(cfg.Url)
	default:
		panic(fmt.Sprintf("unexpected DB dialect %s", cfg.Dialect))
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Silent,
			IgnoreRecordNotFoundError: true,
		},
	)
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		panic(fmt.Sprintf("open db error, err=%s", err.Error()))
	}
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	return db
}
