// Package yahoo は Yahoo Finance の chart API (v8) を使うマーケットデータ提供元です。
package yahoo

import (
	"os"
	"time"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// Config は Yahoo クライアントの設定です。API キーは不要です。
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// LoadConfig は環境変数から設定を読み込みます。
func LoadConfig() Config {
	base := os.Getenv("YAHOO_BASE_URL")
	if base == "" {
		base = defaultBaseURL
	}
	return Config{BaseURL: base, Timeout: 15 * time.Second}
}
