package service

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"strings"

	"github.com/Aashish23092/auction-analyzer/dto"
	"github.com/Aashish23092/auction-analyzer/utils"
)

const (
	TextSourceLayer = "text_layer"
	TextSourceOCR   = "ocr"
)

// TextRecognizer runs OCR on a page image.
type TextRecognizer interface {
	RecognizeImage(img image.Image) (string, float64, error)
}

// ListingOptions tunes ListingService.
type ListingOptions struct {
	// MinTextLength is the trimmed text-layer length below which pages are OCRed.
	MinTextLength int
	// MinTextQuality (0-100) also sends a longer but garbled text layer to OCR.
	// Zero disables the check.
	MinTextQuality float64
	ScanQRCodes    bool
}

// ListingService turns an auction listing PDF into an ExtractedListing.
type ListingService struct {
	pdfProcessor PDFProcessor
	ocr          TextRecognizer
	parser       *utils.ListingParser
	opts         ListingOptions
	logger       *slog.Logger
}

// NewListingService creates a ListingService. ocr may be nil, in which case
// scanned listings without a text layer parse to an empty result.
func NewListingService(pdfProcessor PDFProcessor, ocr TextRecognizer, parser *utils.ListingParser, opts ListingOptions, logger *slog.Logger) *ListingService {
	if parser == nil {
		parser = utils.NewListingParser()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ListingService{
		pdfProcessor: pdfProcessor,
		ocr:          ocr,
		parser:       parser,
		opts:         opts,
		logger:       logger,
	}
}

// ExtractListing reads the listing text (text layer first, OCR when the layer
// is too thin), parses it and collects links from the text and QR codes.
func (s *ListingService) ExtractListing(ctx context.Context, pdfData []byte, password string) (*dto.ParseListingResponse, error) {
	text, textErr := s.pdfProcessor.ExtractText(pdfData, password)
	if textErr != nil {
		s.logger.Warn("listing.text.failed", "error", textErr)
	}
	source := TextSourceLayer

	var images []image.Image
	pageImages := func() []image.Image {
		if images == nil {
			imgs, err := s.pdfProcessor.ExtractImages(pdfData, password)
			if err != nil {
				s.logger.Warn("listing.images.failed", "error", err)
			}
			images = append(make([]image.Image, 0, len(imgs)), imgs...)
		}
		return images
	}

	if s.ocr != nil && s.needsOCR(text) {
		quality := evaluateTextQuality(text)
		s.logger.Info("listing.ocr.fallback", "text_len", len(strings.TrimSpace(text)), "quality", quality)
		ocrText, err := s.recognizePages(ctx, pageImages())
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(ocrText) != "" && evaluateTextQuality(ocrText) >= quality {
			text, source = ocrText, TextSourceOCR
		}
	}

	if strings.TrimSpace(text) == "" && textErr != nil {
		return nil, fmt.Errorf("%w: %v", dto.ErrNoText, textErr)
	}

	listing := s.parser.Parse(text)

	var qrLinks []string
	if s.opts.ScanQRCodes {
		qrLinks = ScanQRLinks(pageImages(), s.logger)
	}
	links := ResolveLinks(utils.ParseLinks(text), qrLinks)
	for _, l := range links {
		listing.Links = append(listing.Links, l.URL)
	}

	resp := &dto.ParseListingResponse{
		Listing:       listing,
		ReviewSnippet: utils.CleanSnippet(listing.RawTextSnippet),
		RoundEstimate: estimateRound(listing),
		Links:         links,
		TextSource:    source,
	}
	s.logger.Info("listing.parse.ok",
		"source", source,
		"case_no", deref(listing.CaseNo),
		"has_min_bid", listing.MinimumBid != nil,
		"rights_rows", len(listing.Rights),
		"links", len(links),
	)
	return resp, nil
}

func (s *ListingService) needsOCR(text string) bool {
	if len(strings.TrimSpace(text)) < s.opts.MinTextLength {
		return true
	}
	return s.opts.MinTextQuality > 0 && evaluateTextQuality(text) < s.opts.MinTextQuality
}

func (s *ListingService) recognizePages(ctx context.Context, images []image.Image) (string, error) {
	var sb strings.Builder
	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		pageText, conf, err := s.ocr.RecognizeImage(img)
		if err != nil {
			s.logger.Warn("listing.ocr.page_failed", "page", i+1, "error", err)
			continue
		}
		s.logger.Debug("listing.ocr.page", "page", i+1, "chars", len(pageText), "confidence", conf)
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(pageText)
	}
	return sb.String(), nil
}

// estimateRound guesses the round from the minimum-bid ratio alone.
func estimateRound(listing dto.ExtractedListing) *dto.RoundEstimate {
	if listing.AppraisalValue == nil || listing.MinimumBid == nil {
		return nil
	}
	est, ok := utils.InferRoundFromRatio(*listing.AppraisalValue, *listing.MinimumBid)
	if !ok {
		return nil
	}
	return &est
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
