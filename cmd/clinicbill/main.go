package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/xxxsen/clinicbill/internal/config"
	"github.com/xxxsen/clinicbill/internal/filestore"
	"github.com/xxxsen/clinicbill/internal/handler"
	"github.com/xxxsen/clinicbill/internal/job"
	"github.com/xxxsen/clinicbill/internal/kvstore"
	"github.com/xxxsen/clinicbill/internal/middleware"
	"github.com/xxxsen/clinicbill/internal/notify"
	"github.com/xxxsen/clinicbill/internal/pkg/timeutil"
	"github.com/xxxsen/clinicbill/internal/repo"
	"github.com/xxxsen/clinicbill/internal/schedule"
	"github.com/xxxsen/clinicbill/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "clinicbill",
		Short: "clinic billing dashboard backend",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run clinicbill server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}

	rootCmd.AddCommand(runCmd, newViewsCmd(&configPath), newExportCmd(&configPath), newTokenCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return nil, fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Init(
		cfg.LogConfig.File,
		cfg.LogConfig.Level,
		int(cfg.LogConfig.FileCount),
		int(cfg.LogConfig.FileSize),
		int(cfg.LogConfig.KeepDays),
		cfg.LogConfig.Console,
	)
	logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", path))
	return cfg, nil
}

func newExportService(cfg *config.Config) *service.ExportService {
	return service.NewExportService(
		timeutil.System,
		notify.NewLog(),
		cfg.Export.CacheSize,
		time.Duration(cfg.Export.CacheTTLSeconds)*time.Second,
	)
}

func runServer(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logutil.GetLogger(ctx).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("kv_store", cfg.KVStore.Type),
		zap.String("file_store", cfg.FileStore.Type),
		zap.Bool("auth", cfg.Auth.JWTSecret != ""),
	)

	kv, err := kvstore.New(cfg.KVStore)
	if err != nil {
		return fmt.Errorf("init kv store: %w", err)
	}
	defer func() {
		_ = kv.Close()
	}()

	viewService := service.NewSavedViewService(repo.NewSavedViewRepo(kv))
	exportService := newExportService(cfg)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Snapshot.Enabled {
		store, err := filestore.New(cfg.FileStore)
		if err != nil {
			return fmt.Errorf("init file store: %w", err)
		}
		scheduler := schedule.NewCronScheduler()
		if err := scheduler.AddJob(job.NewExportSnapshotJob(exportService, store, timeutil.System), cfg.Snapshot.Spec); err != nil {
			return fmt.Errorf("schedule snapshot: %w", err)
		}
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	deps := handler.RouterDeps{
		Views:     handler.NewSavedViewHandler(viewService),
		Export:    handler.NewExportHandler(exportService),
		Options:   handler.NewOptionsHandler(),
		JWTSecret: []byte(cfg.Auth.JWTSecret),
		RateLimit: time.Duration(cfg.RateLimitMS) * time.Millisecond,
	}

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	engine, err := webapi.NewEngine(
		"/api/v1",
		addr,
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSAllowlist),
			middleware.SecureHeaders(cfg.Production),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(ctx).Info("http server listening", zap.String("addr", addr))

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
