// Package router はHTTPルーティングを定義します。
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "stock_dashboard/internal/feature/auth/transport/handler"
	candlehandler "stock_dashboard/internal/feature/candles/transport/handler"
	charthandler "stock_dashboard/internal/feature/chart/transport/handler"
	symbollisthandler "stock_dashboard/internal/feature/symbollist/transport/handler"
	themehandler "stock_dashboard/internal/feature/theme/transport/handler"
	platformhandler "stock_dashboard/internal/platform/http/handler"
	jwtmw "stock_dashboard/internal/platform/jwt"
)

// Handlers はルーターに登録するハンドラーの一覧です。
type Handlers struct {
	Auth    *authhandler.AuthHandler
	Candles *candlehandler.CandlesHandler
	Chart   *charthandler.ChartHandler
	Symbol  *symbollisthandler.SymbolHandler
	Theme   *themehandler.ThemeHandler
	// Metrics が nil の場合 /metrics は登録しません。
	Metrics http.Handler
	// Ready は /readyz で確認する依存先です。
	Ready []platformhandler.Check
}

// NewRouter は gin.Engine を作成してルートを登録します。
func NewRouter(h Handlers, jwtSecret string) *gin.Engine {
	r := gin.Default()

	// ブラウザから別オリジンで /api を呼ぶ場合のため
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// 認証不要
	// 導通確認用
	r.GET("/healthz", platformhandler.Health)
	r.HEAD("/healthz", platformhandler.Health)
	r.GET("/readyz", platformhandler.Ready(h.Ready...))
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics))
	}

	// ダッシュボード
	r.GET("/", h.Chart.Index)
	r.GET("/api/chart", h.Chart.Chart)
	r.GET("/api/chart/export.csv", h.Chart.ExportCSV)
	r.GET("/symbols", h.Symbol.List)
	r.GET("/candles/:code", h.Candles.Latest)
	r.GET("/theme", h.Theme.Get)

	// 新規ユーザー登録
	r.POST("/signup", h.Auth.Signup)
	// ログイン（JWT 発行）
	r.POST("/login", h.Auth.Login)

	// 認証必須のルート
	// → リクエストヘッダーに JWT が必要になる
	auth := r.Group("/")
	auth.Use(jwtmw.AuthRequired(jwtSecret))
	{
		auth.PUT("/theme", h.Theme.Update)
		auth.GET("/users", h.Auth.Users)
	}

	return r
}
