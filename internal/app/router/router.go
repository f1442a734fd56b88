// Package router はHTTPルーティングを組み立てます。
package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	analysishandler "stock_analysis/internal/feature/analysis/transport/handler"
	lookuphandler "stock_analysis/internal/feature/lookup/transport/handler"
	watchlisthandler "stock_analysis/internal/feature/watchlist/transport/handler"
	"stock_analysis/internal/platform/http/handler"
	"stock_analysis/internal/platform/http/middleware"
	jwtmw "stock_analysis/internal/platform/jwt"
	"stock_analysis/internal/platform/metrics"
)

// Handlers はルーターに登録するハンドラー群です。Analysis と Symbols は nil でもよく、
// その場合は該当ルートを登録しません。
type Handlers struct {
	Lookup   *lookuphandler.LookupHandler
	Analysis *analysishandler.AnalysisHandler
	Symbols  *watchlisthandler.SymbolHandler
	Ready    gin.HandlerFunc
}

// NewRouter は gin.Engine を生成します。corsOrigins が空の場合は全オリジンを許可します。
func NewRouter(h Handlers, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog())

	corsCfg := cors.DefaultConfig()
	if len(corsOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = corsOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	corsCfg.ExposeHeaders = []string{middleware.HeaderRequestID}
	r.Use(cors.New(corsCfg))

	// 認証不要
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	if h.Ready != nil {
		r.GET("/readyz", h.Ready)
	}
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// 生のプロバイダ応答を返すルックアップ
	r.GET("/stock/:"+lookuphandler.ParamKey+"/alpha", h.Lookup.Alpha)
	r.GET("/stock/:"+lookuphandler.ParamKey+"/google", h.Lookup.Google)

	// 認証必須のルート
	auth := r.Group("/")
	auth.Use(jwtmw.AuthRequired())
	{
		if h.Analysis != nil {
			auth.GET("/analysis/:symbol", h.Analysis.GetAnalysis)
		}
		if h.Symbols != nil {
			auth.GET("/symbols", h.Symbols.List)
			auth.POST("/symbols", h.Symbols.Add)
			auth.DELETE("/symbols/:code", h.Symbols.Remove)
		}
	}

	return r
}
