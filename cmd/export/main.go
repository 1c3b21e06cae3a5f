package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"spacetraveling/cmd/export/exporter"
	"spacetraveling/cmd/internal/logger"
	"spacetraveling/cmd/web/clients/prismicclient"
	"spacetraveling/cmd/web/services"
	"spacetraveling/cmd/web/views"
	"spacetraveling/config"
	"spacetraveling/dateformat"
)

func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.Init(cfg.Logging.Level, "spacetraveling-export")

	outDir := flag.String("out", cfg.Export.OutDir, "output directory")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := prismicclient.New(cfg.Prismic)
	builder := views.NewBuilder(dateformat.New(cfg.Location()))
	postSvc := services.NewPostService(client, builder, cfg.Blog)

	if _, err := exporter.New(postSvc, views.Templates(), *outDir).Run(ctx); err != nil {
		logger.Log.Errorf("export failed: %v", err)
		os.Exit(1)
	}
}
