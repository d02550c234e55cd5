package server

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
)

// Config 服务配置：先读 .env，再读环境变量，命令行参数最后覆盖
type Config struct {
	Addr          string
	LogFile       string
	LogLevel      string
	TraceFile     string
	RoundInterval time.Duration // 每回合最短间隔，0 表示全速
	Seed          int64         // 0 表示随机
	AutoStart     bool          // 启动时预先开一场比赛
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	return Config{
		Addr:      ":8080",
		LogFile:   "app.log",
		LogLevel:  "info",
		TraceFile: "trace.log",
		AutoStart: true,
	}
}

// LoadConfig 加载 .env（文件不存在不算错误）并解析环境变量
func LoadConfig(envFile string) (Config, error) {
	cfg := DefaultConfig()
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var errs error
	if v, ok := os.LookupEnv("SOCCER_ADDR"); ok {
		cfg.Addr = v
	}
	if v, ok := os.LookupEnv("SOCCER_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := os.LookupEnv("SOCCER_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv("SOCCER_TRACE_FILE"); ok {
		cfg.TraceFile = v
	}
	if v, ok := os.LookupEnv("SOCCER_ROUND_INTERVAL_MS"); ok {
		ms, err := strconv.Atoi(v)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("SOCCER_ROUND_INTERVAL_MS: %w", err))
		}
		cfg.RoundInterval = time.Duration(ms) * time.Millisecond
	}
	if v, ok := os.LookupEnv("SOCCER_SEED"); ok {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("SOCCER_SEED: %w", err))
		}
		cfg.Seed = seed
	}
	if v, ok := os.LookupEnv("SOCCER_AUTOSTART"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("SOCCER_AUTOSTART: %w", err))
		}
		cfg.AutoStart = b
	}
	if errs != nil {
		return cfg, errs
	}
	return cfg, cfg.Validate()
}

// Validate 汇总所有配置问题一次性返回
func (c Config) Validate() error {
	var errs error
	if c.Addr == "" {
		errs = multierr.Append(errs, errors.New("addr must not be empty"))
	}
	if c.LogFile == "" {
		errs = multierr.Append(errs, errors.New("log file must not be empty"))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = multierr.Append(errs, fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	if c.RoundInterval < 0 {
		errs = multierr.Append(errs, fmt.Errorf("round interval %v is negative", c.RoundInterval))
	}
	return errs
}
