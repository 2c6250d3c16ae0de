package main

import (
	"context"

	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	infradb "stock_dashboard/internal/platform/db"
	platformhandler "stock_dashboard/internal/platform/http/handler"
)

// readyChecks は /readyz で確認する依存先を返します。Redis が無効なら disabled と報告します。
func readyChecks(db *gorm.DB, rdb *redisv9.Client) []platformhandler.Check {
	checks := []platformhandler.Check{
		{Name: "db", Ping: func(context.Context) error { return infradb.Ping(db) }},
		{Name: "redis"},
	}
	if rdb != nil {
		checks[1].Ping = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return checks
}
