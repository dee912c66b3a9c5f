package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"filescope/internal/api"
	"filescope/internal/config"
	"filescope/internal/database"
	"filescope/internal/logging"
	recordspg "filescope/internal/records/postgres"
	schemapg "filescope/internal/schema/postgres"
	"filescope/internal/service"
	"filescope/internal/storage"
	"filescope/internal/storage/local"
	"filescope/internal/storage/s3"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogPretty)
	logger.Info().Msg("配置加载完成，开始启动服务")

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("连接数据库失败")
	}
	defer db.Close()

	contentStore, err := newContentReader(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化内容存储失败")
	}

	catalog := schemapg.NewCatalog(db)
	recordStore := recordspg.NewStore(db, catalog)

	relatedFiles := api.NewRelatedFilesHandler(service.NewRelatedFilesService(recordStore, contentStore))
	describe := api.NewDescribeHandler(service.NewDescribeService(catalog))

	router := api.NewRouter(cfg, relatedFiles, describe)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		Handler:      router,
	}

	logger.Info().Str("port", cfg.HTTPPort).Msg("服务开始监听")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("监听失败")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("优雅关闭失败")
	}

	logger.Info().Msg("服务已停止")
}

func newContentReader(ctx context.Context, cfg *config.Config) (storage.Reader, error) {
	switch cfg.StorageDriver {
	case "local":
		return local.NewStorage(cfg.StorageDir), nil
	case "s3":
		return s3.New(ctx, s3.Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			UseSSL:    cfg.S3UseSSL,
			PathStyle: cfg.S3PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.StorageDriver)
	}
}
