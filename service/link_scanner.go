package service

import (
	"image"
	"log/slog"
	"strings"

	"github.com/Aashish23092/auction-analyzer/dto"
	"github.com/Aashish23092/auction-analyzer/utils"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// DecodeQR returns the text of the QR code in img.
func DecodeQR(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", err
	}
	result, err := qrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", err
	}
	return result.GetText(), nil
}

// ScanQRLinks decodes a QR code on each page image and keeps the ones that
// carry an http(s) URL. Pages without a readable code are skipped.
func ScanQRLinks(images []image.Image, logger *slog.Logger) []string {
	if logger == nil {
		logger = slog.Default()
	}
	var links []string
	for i, img := range images {
		text, err := DecodeQR(img)
		if err != nil {
			logger.Debug("listing.qr.miss", "image", i+1, "error", err)
			continue
		}
		links = append(links, utils.ParseLinks(strings.TrimSpace(text))...)
	}
	return links
}

// ResolveLinks de-duplicates links and attaches any coordinate they carry.
func ResolveLinks(links ...[]string) []dto.ListingLink {
	seen := make(map[string]bool)
	var out []dto.ListingLink
	for _, group := range links {
		for _, u := range group {
			if seen[u] {
				continue
			}
			seen[u] = true
			l := dto.ListingLink{URL: u}
			if pt, ok := utils.LatLonFromLink(u); ok {
				l.Point = &pt
			}
			out = append(out, l)
		}
	}
	return out
}
