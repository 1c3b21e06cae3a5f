package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"spacetraveling/cmd/internal/logger"
	"spacetraveling/cmd/web/clients/prismicclient"
	"spacetraveling/cmd/web/router"
	"spacetraveling/cmd/web/services"
	"spacetraveling/cmd/web/views"
	"spacetraveling/config"
	"spacetraveling/dateformat"
	_ "spacetraveling/docs" // swag init 으로 재생성한다
)

// @title           spacetraveling API
// @version         1.0
// @description     JSON endpoints of the spacetraveling blog
// @BasePath        /
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.Init(cfg.Logging.Level, "spacetraveling-web")
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	client := prismicclient.New(cfg.Prismic)
	builder := views.NewBuilder(dateformat.New(cfg.Location()))
	postSvc := services.NewPostService(client, builder, cfg.Blog)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router.WithCORS(router.New(postSvc), cfg.HTTP),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.InfoWithFields("starting web server", logger.Fields{"addr": cfg.HTTP.Addr, "prismic": cfg.Prismic.Endpoint})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Errorf("server stopped: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Errorf("shutdown: %v", err)
	}
	logger.Log.Info("web server stopped")
}
