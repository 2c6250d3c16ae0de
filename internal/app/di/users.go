package di

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gorm.io/gorm"

	authadapters "stock_dashboard/internal/feature/auth/adapters"
	"stock_dashboard/internal/feature/auth/usecase"
)

// User store kinds selected by USER_STORE.
const (
	UserStoreCSV = "csv"
	UserStoreDB  = "db"

	defaultUserCSVFile = "data/users.csv"
)

// UserStoreConfig selects where sign-ups are written.
type UserStoreConfig struct {
	Kind    string
	CSVPath string
}

// LoadUserStoreConfig reads USER_STORE and USER_CSV_FILE.
func LoadUserStoreConfig() UserStoreConfig {
	cfg := UserStoreConfig{
		Kind:    strings.ToLower(strings.TrimSpace(os.Getenv("USER_STORE"))),
		CSVPath: os.Getenv("USER_CSV_FILE"),
	}
	if cfg.Kind == "" {
		cfg.Kind = UserStoreCSV
	}
	if cfg.CSVPath == "" {
		cfg.CSVPath = defaultUserCSVFile
	}
	return cfg
}

// NewUserRepository creates the sign-up sink.
// The CSV store needs no database; the DB store requires db.
func NewUserRepository(cfg UserStoreConfig, db *gorm.DB) (usecase.UserRepository, error) {
	switch cfg.Kind {
	case UserStoreCSV:
		return authadapters.NewUserCSV(cfg.CSVPath), nil
	case UserStoreDB:
		if db == nil {
			return nil, errors.New("USER_STORE=db requires a database connection")
		}
		return authadapters.NewUserGorm(db), nil
	default:
		return nil, fmt.Errorf("unknown USER_STORE %q", cfg.Kind)
	}
}
