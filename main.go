package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/Aashish23092/auction-analyzer/client"
	"github.com/Aashish23092/auction-analyzer/config"
	"github.com/Aashish23092/auction-analyzer/handler"
	"github.com/Aashish23092/auction-analyzer/pkg/logger"
	"github.com/Aashish23092/auction-analyzer/service"
	"github.com/Aashish23092/auction-analyzer/store"
	"github.com/Aashish23092/auction-analyzer/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("config.load.failed", "error", err)
		os.Exit(1)
	}
	log := logger.Init(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	db, err := store.OpenSQLite(cfg.Store.Path)
	if err != nil {
		log.Error("store.open.failed", "path", cfg.Store.Path, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.EnsureSchema(); err != nil {
		log.Error("store.schema.failed", "error", err)
		os.Exit(1)
	}

	// OCR is optional; without it scanned listings parse to empty fields.
	var ocr service.TextRecognizer
	switch {
	case !cfg.OCR.Enabled:
	case cfg.OCR.Engine == config.EnginePaddle:
		ocr = client.NewPaddleClient(cfg.OCR.PaddleURL, time.Duration(cfg.OCR.TimeoutSec)*time.Second)
	default:
		tesseractClient := client.NewTesseractClient(cfg.OCR.TessdataPath, cfg.OCR.Languages...)
		defer tesseractClient.Close()
		ocr = tesseractClient
	}

	pdfProcessor := service.NewPDFProcessor(cfg.PDF.MaxPages)
	parser := utils.NewListingParser(cfg.Extraction.ExtraTokens...)

	listingService := service.NewListingService(pdfProcessor, ocr, parser, service.ListingOptions{
		MinTextLength:  cfg.OCR.MinTextLength,
		MinTextQuality: cfg.OCR.MinTextQuality,
		ScanQRCodes:    cfg.PDF.ScanQRCodes,
	}, log)
	compsLoader := service.NewCompsLoader(log)
	analysisService := service.NewAnalysisService(listingService, compsLoader, db, service.ScenarioDefaults{
		Assumptions:        cfg.Assumptions,
		LoanToAppraisal:    cfg.Bidding.LoanToAppraisal,
		BidSpan:            cfg.Bidding.BidSpan,
		FallbackStartRatio: cfg.Bidding.FallbackStartRatio,
		ViewWindowM2:       cfg.Bidding.ViewWindowM2,
		ViewRows:           cfg.Bidding.ViewRows,
	}, log)

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.NewRouter(handler.Handlers{
		Listing:  handler.NewListingHandler(listingService),
		Comps:    handler.NewCompsHandler(compsLoader, cfg.Bidding.ViewWindowM2, cfg.Bidding.ViewRows),
		Analysis: handler.NewAnalysisHandler(analysisService, cfg.Assumptions),
	}, cfg.MaxUploadBytes())

	log.Info("server.start", "port", cfg.Server.Port, "ocr", cfg.OCR.Enabled, "ocr_engine", cfg.OCR.Engine, "db", cfg.Store.Path)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Error("server.stopped", "error", err)
		os.Exit(1)
	}
}
