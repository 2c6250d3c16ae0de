package adapters

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"stock_dashboard/internal/feature/auth/domain/entity"
	"stock_dashboard/internal/feature/auth/usecase"
)

var csvHeader = []string{"Username", "Email", "Password"}

// userCSV はサインアップを CSV ファイルへ追記する UserRepository 実装です。
// 追記のみで、メールアドレスの重複は検査しません。書き込みはプロセス内で直列化されます。
type userCSV struct {
	path string
	mu   sync.Mutex
}

var _ usecase.UserRepository = (*userCSV)(nil)

// NewUserCSV は path に書き込む userCSV を作成します。ファイルは最初の書き込み時に作成されます。
func NewUserCSV(path string) *userCSV {
	return &userCSV{path: path}
}

// Create は1行追記します。新規ファイルの場合は先にヘッダーを書き込みます。
func (r *userCSV) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("user is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create user csv dir: %w", err)
	}
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open user csv: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat user csv: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("write user csv header: %w", err)
		}
	}
	if err := w.Write([]string{u.Username, u.Email, u.Password}); err != nil {
		return fmt.Errorf("write user csv: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush user csv: %w", err)
	}

	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	return nil
}

// FindByEmail は後勝ちで、最後に書き込まれた行を返します。
func (r *userCSV) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := len(users) - 1; i >= 0; i-- {
		if users[i].Email == email {
			u := users[i]
			return &u, nil
		}
	}
	return nil, usecase.ErrUserNotFound
}

// List はファイルの全行を返します。ファイルがなければ空です。
func (r *userCSV) List(ctx context.Context) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Open(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return []entity.User{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open user csv: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = len(csvHeader)

	users := []entity.User{}
	for line := 0; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read user csv: %w", err)
		}
		if line == 0 && rec[0] == csvHeader[0] && rec[1] == csvHeader[1] {
			continue
		}
		users = append(users, entity.User{
			ID:       uint(len(users) + 1),
			Username: rec[0],
			Email:    rec[1],
			Password: rec[2],
		})
	}
	return users, nil
}
