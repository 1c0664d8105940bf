package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/Aashish23092/auction-analyzer/dto"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EngineTesseract = "tesseract"
	EnginePaddle    = "paddle"
)

type Config struct {
	Server      ServerConfig     `yaml:"server"`
	OCR         OCRConfig        `yaml:"ocr"`
	PDF         PDFConfig        `yaml:"pdf"`
	Store       StoreConfig      `yaml:"store"`
	Log         LogConfig        `yaml:"log"`
	Extraction  ExtractionConfig `yaml:"extraction"`
	Assumptions dto.Assumptions  `yaml:"assumptions"`
	Bidding     BiddingConfig    `yaml:"bidding"`
}

type ServerConfig struct {
	Port        string `yaml:"port"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
}

type OCRConfig struct {
	Enabled      bool     `yaml:"enabled"`
	Engine       string   `yaml:"engine"` // tesseract or paddle
	TessdataPath string   `yaml:"tessdata_path"`
	Languages    []string `yaml:"languages"`
	PaddleURL    string   `yaml:"paddle_url"`
	TimeoutSec   int      `yaml:"timeout_sec"`

	// MinTextLength is the text-layer length below which pages are OCRed
	MinTextLength int `yaml:"min_text_length"`
	// MinTextQuality (0-100) sends a garbled text layer to OCR; 0 disables
	MinTextQuality float64 `yaml:"min_text_quality"`
}

type PDFConfig struct {
	MaxPages    int  `yaml:"max_pages"`
	ScanQRCodes bool `yaml:"scan_qr_codes"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ExtractionConfig struct {
	// ExtraTokens are appended to the built-in repeating address tokens
	ExtraTokens []string `yaml:"extra_tokens"`
}

type BiddingConfig struct {
	LoanToAppraisal    float64 `yaml:"loan_to_appraisal"`
	BidSpan            int64   `yaml:"bid_span"`
	FallbackStartRatio float64 `yaml:"fallback_start_ratio"`
	ViewWindowM2       float64 `yaml:"view_window_m2"`
	ViewRows           int     `yaml:"view_rows"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080", MaxUploadMB: 32},
		OCR: OCRConfig{
			Enabled:        true,
			Engine:         EngineTesseract,
			Languages:      []string{"kor", "eng"},
			TimeoutSec:     30,
			MinTextLength:  20,
			MinTextQuality: 30,
		},
		PDF:   PDFConfig{MaxPages: 6, ScanQRCodes: true},
		Store: StoreConfig{Path: "auction.db"},
		Log:   LogConfig{Level: "info", Format: "text"},
		Assumptions: dto.Assumptions{
			TaxRate:           0.011,
			InterestRate:      0.05,
			HoldingDays:       90,
			RepairCost:        3_000_000,
			EvictionCost:      2_000_000,
			EarlyRepayFeeRate: 0.012,
			BidStep:           1_000_000,
		},
		Bidding: BiddingConfig{
			LoanToAppraisal:    0.6,
			BidSpan:            40_000_000,
			FallbackStartRatio: 0.8,
			ViewWindowM2:       10,
			ViewRows:           30,
		},
	}
}

// LoadConfig layers defaults, an optional YAML file and the environment (a
// .env file in the working directory is loaded first). An empty path or a
// missing file skips the YAML layer.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("config.dotenv.skipped", "error", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			slog.Debug("config.file.missing", "path", path)
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("SERVER_PORT", c.Server.Port)
	c.Server.MaxUploadMB = int64(getEnvInt("MAX_UPLOAD_MB", int(c.Server.MaxUploadMB)))
	c.OCR.TessdataPath = getEnv("TESSDATA_PREFIX", c.OCR.TessdataPath)
	c.OCR.Enabled = getEnvBool("OCR_ENABLED", c.OCR.Enabled)
	c.OCR.Engine = getEnv("OCR_ENGINE", c.OCR.Engine)
	c.OCR.PaddleURL = getEnv("PADDLEOCR_API_URL", c.OCR.PaddleURL)
	if langs := os.Getenv("OCR_LANGUAGES"); langs != "" {
		c.OCR.Languages = strings.Split(langs, "+")
	}
	c.PDF.MaxPages = getEnvInt("PDF_MAX_PAGES", c.PDF.MaxPages)
	c.Store.Path = getEnv("DB_PATH", c.Store.Path)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if c.OCR.Engine != EngineTesseract && c.OCR.Engine != EnginePaddle {
		return fmt.Errorf("ocr.engine must be %q or %q, got %q", EngineTesseract, EnginePaddle, c.OCR.Engine)
	}
	if err := c.Assumptions.Validate(); err != nil {
		return fmt.Errorf("assumptions: %w", err)
	}
	if c.Bidding.LoanToAppraisal < 0 || c.Bidding.BidSpan < 0 || c.Bidding.FallbackStartRatio < 0 {
		return errors.New("bidding values must not be negative")
	}
	return nil
}

// MaxUploadBytes is the request body cap.
func (c *Config) MaxUploadBytes() int64 {
	return c.Server.MaxUploadMB << 20
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
