// Package cache は Redis によるリポジトリのキャッシュデコレーターを提供します。
//
// Redis クライアントが nil の場合、デコレーターは内部のリポジトリをそのまま呼び出します。
// キャッシュの読み書きはベストエフォートで、Redis の障害はリクエストを失敗させません。
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_dashboard/internal/platform/metrics"
)

const (
	defaultTTL = 5 * time.Minute
	scanCount  = 200
)

// Options はキャッシュデコレーターの共通設定です。
type Options struct {
	// Namespace はキーの先頭に付く名前空間です。空ならデコレーターごとの既定値を使います。
	Namespace string
	// TTL は書き込みごとに評価されます。nil の場合は5分です。
	TTL func() time.Duration
	// Metrics が nil でなければヒット・ミスを記録します。
	Metrics *metrics.Metrics
	// Logger は Redis 障害の警告先です。nil の場合は slog.Default() を使います。
	Logger *slog.Logger
}

// FixedTTL は常に d を返す TTL 関数です。
func FixedTTL(d time.Duration) func() time.Duration {
	return func() time.Duration { return d }
}

type redisStore struct {
	rdb       *redis.Client
	ttl       func() time.Duration
	namespace string
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func newRedisStore(rdb *redis.Client, opts Options, namespace string) redisStore {
	if opts.Namespace != "" {
		namespace = opts.Namespace
	}
	ttl := opts.TTL
	if ttl == nil {
		ttl = FixedTTL(defaultTTL)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return redisStore{rdb: rdb, ttl: ttl, namespace: namespace, metrics: opts.Metrics, logger: logger}
}

func (s redisStore) enabled() bool { return s.rdb != nil }

// key は namespace:part1:part2:... 形式のキーを返します。
func (s redisStore) key(parts ...string) string {
	b := strings.Builder{}
	b.WriteString(s.namespace)
	for _, p := range parts {
		b.WriteByte(':')
		b.WriteString(safe(p))
	}
	return b.String()
}

// load はキーの値を out に復元します。破損したエントリは削除してミス扱いにします。
func (s redisStore) load(ctx context.Context, key string, out any) bool {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		if err != nil && !errors.Is(err, redis.Nil) {
			s.logger.Warn("cache get failed", "key", key, "error", err)
		}
		s.metrics.ObserveCache(false)
		return false
	}
	if err := json.Unmarshal(b, out); err != nil {
		_ = s.rdb.Del(ctx, key).Err()
		s.metrics.ObserveCache(false)
		return false
	}
	s.metrics.ObserveCache(true)
	return true
}

func (s redisStore) save(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	ttl := s.ttl()
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if err := s.rdb.Set(ctx, key, b, ttl).Err(); err != nil {
		s.logger.Warn("cache set failed", "key", key, "error", err)
	}
}

// deleteByPattern は SCAN でパターンに一致するキーをすべて削除します。
func (s redisStore) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := s.rdb.Scan(ctx, cursor, pattern, scanCount).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			return nil
		}
	}
}

// safe はキーの区切りと衝突する文字を置き換えます。
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
