package service

import (
	"context"
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/Aashish23092/auction-analyzer/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingText = `서울북부지방법원 2024타경 12345 매각기일 : 2025.03.04 (10:00)
소 재 지 서울특별시 중랑구 묵동 123-4 현진월드빌 5층 502호
감 정 가 342,000,000원 건물면적 59.8㎡
최 저 가(80%) 273,600,000
1차 2025.01.28 342,000,000 유찰
2차 2025.03.04 273,600,000
지도 보기
https://map.example.kr/?lat=37.6123&lng=127.0765`

type fakePDF struct {
	text      string
	textErr   error
	images    []image.Image
	imageErr  error
	imageRuns int
}

func (f *fakePDF) ExtractText([]byte, string) (string, error) { return f.text, f.textErr }

func (f *fakePDF) ExtractImages([]byte, string) ([]image.Image, error) {
	f.imageRuns++
	return f.images, f.imageErr
}

type fakeOCR struct {
	text  string
	calls int
}

func (f *fakeOCR) RecognizeImage(image.Image) (string, float64, error) {
	f.calls++
	return f.text, 91.5, nil
}

func blankPage() image.Image { return image.NewGray(image.Rect(0, 0, 4, 4)) }

func TestListingService_TextLayer(t *testing.T) {
	pdf := &fakePDF{text: listingText}
	ocr := &fakeOCR{}
	svc := NewListingService(pdf, ocr, nil, ListingOptions{MinTextLength: 20}, nil)

	resp, err := svc.ExtractListing(context.Background(), []byte("%PDF"), "")
	require.NoError(t, err)

	assert.Equal(t, TextSourceLayer, resp.TextSource)
	assert.Zero(t, ocr.calls)
	assert.Zero(t, pdf.imageRuns)

	require.NotNil(t, resp.Listing.CaseNo)
	assert.Equal(t, "2024타경12345", *resp.Listing.CaseNo)
	require.NotNil(t, resp.Listing.MinimumBid)
	assert.Equal(t, int64(273_600_000), *resp.Listing.MinimumBid)

	require.NotNil(t, resp.RoundEstimate)
	assert.Equal(t, 2, resp.RoundEstimate.Round)
	assert.Equal(t, 1, resp.RoundEstimate.PriorFailed)

	require.Len(t, resp.Links, 1)
	require.NotNil(t, resp.Links[0].Point)
	assert.InDelta(t, 37.6123, resp.Links[0].Point.Lat, 1e-9)
	assert.Equal(t, []string{resp.Links[0].URL}, resp.Listing.Links)
	assert.NotEmpty(t, resp.ReviewSnippet)
}

func TestListingService_OCRFallback(t *testing.T) {
	pdf := &fakePDF{text: "  ", images: []image.Image{blankPage(), blankPage()}}
	ocr := &fakeOCR{text: listingText}
	svc := NewListingService(pdf, ocr, nil, ListingOptions{MinTextLength: 20, ScanQRCodes: true}, nil)

	resp, err := svc.ExtractListing(context.Background(), []byte("%PDF"), "")
	require.NoError(t, err)

	assert.Equal(t, TextSourceOCR, resp.TextSource)
	assert.Equal(t, 2, ocr.calls)
	assert.Equal(t, 1, pdf.imageRuns)
	require.NotNil(t, resp.Listing.AppraisalValue)
	assert.Equal(t, int64(342_000_000), *resp.Listing.AppraisalValue)
}

func TestListingService_GarbledLayerGoesToOCR(t *testing.T) {
	pdf := &fakePDF{text: strings.Repeat("ÿþ@#", 50), images: []image.Image{blankPage()}}
	ocr := &fakeOCR{text: listingText}
	svc := NewListingService(pdf, ocr, nil, ListingOptions{MinTextLength: 20, MinTextQuality: 50}, nil)

	resp, err := svc.ExtractListing(context.Background(), []byte("%PDF"), "")
	require.NoError(t, err)
	assert.Equal(t, TextSourceOCR, resp.TextSource)
	assert.Equal(t, 1, ocr.calls)
}

func TestListingService_KeepsLayerWhenOCRIsWorse(t *testing.T) {
	pdf := &fakePDF{text: listingText, images: []image.Image{blankPage()}}
	ocr := &fakeOCR{text: "|||| ::: ||||"}
	svc := NewListingService(pdf, ocr, nil, ListingOptions{MinTextLength: 20, MinTextQuality: 90}, nil)

	resp, err := svc.ExtractListing(context.Background(), []byte("%PDF"), "")
	require.NoError(t, err)
	assert.Equal(t, TextSourceLayer, resp.TextSource)
	assert.Equal(t, 1, ocr.calls)
	require.NotNil(t, resp.Listing.CaseNo)
}

func TestListingService_NoText(t *testing.T) {
	pdf := &fakePDF{textErr: errors.New("malformed xref")}
	svc := NewListingService(pdf, nil, nil, ListingOptions{MinTextLength: 20}, nil)

	_, err := svc.ExtractListing(context.Background(), []byte("junk"), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, dto.ErrNoText)
}

func TestListingService_EmptyTextIsNotAnError(t *testing.T) {
	svc := NewListingService(&fakePDF{}, nil, nil, ListingOptions{MinTextLength: 20}, nil)

	resp, err := svc.ExtractListing(context.Background(), []byte("%PDF"), "")
	require.NoError(t, err)
	assert.Nil(t, resp.Listing.CaseNo)
	assert.Nil(t, resp.RoundEstimate)
}

func TestListingService_CancelledDuringOCR(t *testing.T) {
	pdf := &fakePDF{images: []image.Image{blankPage()}}
	svc := NewListingService(pdf, &fakeOCR{text: listingText}, nil, ListingOptions{MinTextLength: 20}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.ExtractListing(ctx, []byte("%PDF"), "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolveLinks_Dedupes(t *testing.T) {
	links := ResolveLinks(
		[]string{"https://a.example.kr/x", "https://map.example.kr/?lat=37.5&lng=127.0"},
		[]string{"https://a.example.kr/x"},
	)
	require.Len(t, links, 2)
	assert.Nil(t, links[0].Point)
	require.NotNil(t, links[1].Point)
	assert.InDelta(t, 127.0, links[1].Point.Lon, 1e-9)
}

func TestScanQRLinks_SkipsUnreadablePages(t *testing.T) {
	assert.Empty(t, ScanQRLinks([]image.Image{blankPage()}, nil))
}
