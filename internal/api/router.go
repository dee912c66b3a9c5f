package api

import (
	"net/http"

	"filescope/internal/config"
	fsmiddleware "filescope/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter 构建 HTTP 路由，集中注册所有对外服务的端点。
// 鉴权与共享规则由上游平台网关处理，这里不再校验调用方身份。
func NewRouter(cfg *config.Config, relatedFiles *RelatedFilesHandler, describe *DescribeHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(fsmiddleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(fsmiddleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
	r.Use(fsmiddleware.Metrics())

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Prometheus 指标端点
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if relatedFiles != nil {
			relatedFiles.RegisterRoutes(r)
		}
		if describe != nil {
			describe.RegisterRoutes(r)
		}
	})

	return r
}
