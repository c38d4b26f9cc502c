// @title Manajemen Paper API
// @version 1.0
// @description 学术论文仓库系统：论文上传、版本管理、附属资源、阅读列表与检索

// @host localhost:4000
// @BasePath /api/v1
// @schemes http

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/asaabil/manajemenpaper/config"
	"github.com/asaabil/manajemenpaper/internal/database"
	"github.com/asaabil/manajemenpaper/internal/logger"
	"github.com/asaabil/manajemenpaper/internal/router"
	authservice "github.com/asaabil/manajemenpaper/internal/service/auth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(&cfg.Log); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Errorf("Failed to initialize database: %v", err)
		os.Exit(1)
	}

	// 管理员播种在接收请求前完成
	authService := authservice.NewService(db, cfg.JWT)
	if err := authService.SeedAdmin(cfg.Admin); err != nil {
		logger.Errorf("Failed to seed admin account: %v", err)
		os.Exit(1)
	}

	r, err := router.NewRouter(db, cfg)
	if err != nil {
		logger.Errorf("Failed to initialize router: %v", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Infof("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("Server error: %v", err)
			os.Exit(1)
		}
	}()

	// 等待退出信号并优雅关停
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Forced to shutdown: %v", err)
	}
	logger.Info("Server stopped")
}
