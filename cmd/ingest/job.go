package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	candleusecase "stock_dashboard/internal/feature/candles/usecase"
)

// Twelve Data の無料枠（8リクエスト/分）に合わせた既定値です。
const defaultRateLimit = 8

type symbolLister interface {
	ListActiveCodes(ctx context.Context) ([]string, error)
}

type ingester interface {
	IngestAll(ctx context.Context, symbols []string) (candleusecase.IngestResult, error)
}

// ingestJob はアクティブな全銘柄を取り込みます。前回の実行中に呼ばれた場合はスキップします。
type ingestJob struct {
	symbols symbolLister
	ingest  ingester
	timeout time.Duration

	mu      sync.Mutex
	running bool
}

func (j *ingestJob) Run(ctx context.Context) error {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		slog.Warn("previous ingest still running, skipping")
		return nil
	}
	j.running = true
	j.mu.Unlock()
	defer func() {
		j.mu.Lock()
		j.running = false
		j.mu.Unlock()
	}()

	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	codes, err := j.symbols.ListActiveCodes(ctx)
	if err != nil {
		return fmt.Errorf("failed to load symbols: %w", err)
	}

	start := time.Now()
	res, err := j.ingest.IngestAll(ctx, codes)
	slog.Info("ingest finished",
		"symbols", len(codes),
		"succeeded", res.Succeeded,
		"failed", res.Failed,
		"elapsed", time.Since(start).String(),
	)
	return err
}

// parseRateLimit は1分あたりのリクエスト上限を解釈します。空なら既定値、0 は無制限です。
func parseRateLimit(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultRateLimit, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("rate limit must not be negative: %d", n)
	}
	return n, nil
}
