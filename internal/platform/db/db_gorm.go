// Package db は gorm による DB 接続とマイグレーションを提供します。
package db

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	authentity "stock_dashboard/internal/feature/auth/domain/entity"
	candleadapters "stock_dashboard/internal/feature/candles/adapters"
	symbolentity "stock_dashboard/internal/feature/symbollist/domain/entity"
)

// サポートするドライバーです。
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	defaultDriver  = DriverSQLite
	defaultPath    = "data/dashboard.db"
	connectTimeout = 60 * time.Second
	retryInterval  = 3 * time.Second
)

// Config はDB接続設定です。
type Config struct {
	Driver   string
	Path     string // sqlite のファイルパス
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	// RunMigrations が true なら Open の後に AutoMigrate を実行します。
	RunMigrations bool
}

// LoadConfig は環境変数からDB設定を読み込みます。
func LoadConfig() Config {
	cfg := Config{
		Driver:        strings.ToLower(os.Getenv("DB_DRIVER")),
		Path:          os.Getenv("DB_PATH"),
		Host:          os.Getenv("DB_HOST"),
		Port:          os.Getenv("DB_PORT"),
		User:          os.Getenv("DB_USER"),
		Password:      os.Getenv("DB_PASSWORD"),
		Name:          os.Getenv("DB_NAME"),
		RunMigrations: os.Getenv("RUN_MIGRATIONS") != "false",
	}
	if cfg.Driver == "" {
		cfg.Driver = defaultDriver
	}
	if cfg.Path == "" {
		cfg.Path = defaultPath
	}
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == "" {
		cfg.Port = "5432"
	}
	return cfg
}

// BuildDSN はドライバーに応じた接続文字列を生成します。
func BuildDSN(cfg Config) (string, error) {
	switch cfg.Driver {
	case DriverSQLite:
		return cfg.Path + "?_busy_timeout=5000", nil
	case DriverPostgres:
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name), nil
	default:
		return "", fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

// Dialector は設定に対応する gorm.Dialector を返します。
func Dialector(cfg Config) (gorm.Dialector, error) {
	dsn, err := BuildDSN(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Driver == DriverSQLite {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
		return sqlite.Open(dsn), nil
	}
	return postgres.Open(dsn), nil
}

// Opener は Dialector から接続を開く関数です。テストで差し替えます。
type Opener func(d gorm.Dialector) (*gorm.DB, error)

func defaultOpener(d gorm.Dialector) (*gorm.DB, error) {
	// TranslateError で一意制約違反を gorm.ErrDuplicatedKey に変換する
	return gorm.Open(d, &gorm.Config{TranslateError: true})
}

// ConnectWithRetry は timeout までの間、retryInterval ごとに接続を試みます。
func ConnectWithRetry(d gorm.Dialector, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(d)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err)
		time.Sleep(retryInterval)
	}
}

// Open は設定に従って接続し、必要ならマイグレーションを実行します。
func Open(cfg Config) (*gorm.DB, error) {
	d, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	db, err := ConnectWithRetry(d, connectTimeout, defaultOpener)
	if err != nil {
		return nil, err
	}
	if cfg.RunMigrations {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	slog.Info("database ready", "driver", cfg.Driver)
	return db, nil
}

// Migrate はダッシュボードが使うテーブル（users, candles, symbols）を作成・更新します。
func Migrate(db *gorm.DB) error {
	if db == nil {
		return errors.New("db is nil")
	}
	if err := db.AutoMigrate(
		&authentity.User{},
		&candleadapters.CandleModel{},
		&symbolentity.Symbol{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// Ping は readiness 確認用に接続を確認します。
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
