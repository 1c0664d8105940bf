package handler

import (
	"bytes"
	"encoding/json"
	"image"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/Aashish23092/auction-analyzer/dto"
	"github.com/Aashish23092/auction-analyzer/pkg/logger"
	"github.com/Aashish23092/auction-analyzer/service"
	"github.com/Aashish23092/auction-analyzer/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const listingText = `서울북부지방법원 2024타경 12345 매각기일 : 2025.03.04 (10:00)
소 재 지 서울특별시 중랑구 묵동 123-4 현진월드빌 5층 502호
감 정 가 342,000,000원 건물면적 59.8㎡
최 저 가(80%) 273,600,000
1차 2025.01.28 342,000,000 유찰
2차 2025.03.04 273,600,000`

type textOnlyPDF struct{ text string }

func (p textOnlyPDF) ExtractText([]byte, string) (string, error)          { return p.text, nil }
func (p textOnlyPDF) ExtractImages([]byte, string) ([]image.Image, error) { return nil, nil }

var testAssumptions = dto.Assumptions{
	TaxRate:           0.011,
	InterestRate:      0.05,
	HoldingDays:       90,
	RepairCost:        3_000_000,
	EvictionCost:      2_000_000,
	EarlyRepayFeeRate: 0.012,
	BidStep:           1_000_000,
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := store.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.EnsureSchema())
	t.Cleanup(func() { _ = db.Close() })

	listings := service.NewListingService(textOnlyPDF{text: listingText}, nil, nil, service.ListingOptions{MinTextLength: 20}, nil)
	loader := service.NewCompsLoader(nil)
	analyses := service.NewAnalysisService(listings, loader, db, service.ScenarioDefaults{
		Assumptions:        testAssumptions,
		LoanToAppraisal:    0.6,
		BidSpan:            40_000_000,
		FallbackStartRatio: 0.8,
		ViewWindowM2:       10,
		ViewRows:           30,
	}, nil)

	return NewRouter(Handlers{
		Listing:  NewListingHandler(listings),
		Comps:    NewCompsHandler(loader, 10, 30),
		Analysis: NewAnalysisHandler(analyses, testAssumptions),
	}, 8<<20)
}

func compsXLSX(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"시군구", "전용면적(㎡)", "거래금액", "층"}))
	for i := 0; i < 10; i++ {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cellRef, &[]any{"서울특별시 중랑구 묵동", 59.8, 330_000_000 + i*2_000_000, 3}))
	}
	require.NoError(t, f.SetSheetRow("Sheet1", "A12", &[]any{"서울특별시 중랑구 묵동", 84.9, 450_000_000, 7}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func multipartRequest(t *testing.T, url string, fields map[string]string, files map[string][]byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for name, value := range fields {
		require.NoError(t, w.WriteField(name, value))
	}
	for name, data := range files {
		part, err := w.CreateFormFile(name, name+".bin")
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := serve(newTestRouter(t), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestParseListing(t *testing.T) {
	router := newTestRouter(t)

	w := serve(router, multipartRequest(t, "/api/v1/listings/parse", nil, map[string][]byte{"file": []byte("%PDF-1.7")}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp dto.ParseListingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Listing.CaseNo)
	assert.Equal(t, "2024타경12345", *resp.Listing.CaseNo)
	assert.Equal(t, service.TextSourceLayer, resp.TextSource)
}

func TestParseListing_MissingFile(t *testing.T) {
	w := serve(newTestRouter(t), multipartRequest(t, "/api/v1/listings/parse", map[string]string{"password": "x"}, nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, codeInvalidRequest, resp.Error)
}

func TestViewComparables(t *testing.T) {
	router := newTestRouter(t)

	w := serve(router, multipartRequest(t, "/api/v1/comparables/view", map[string]string{"area": "59.8"}, map[string][]byte{"file": compsXLSX(t)}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var view dto.ComparablesView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, 11, view.TotalRows)
	assert.Len(t, view.Rows, 10)

	w = serve(router, multipartRequest(t, "/api/v1/comparables/view", map[string]string{"area": "abc"}, map[string][]byte{"file": compsXLSX(t)}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestViewComparables_MissingColumns(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"시군구", "층"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	w := serve(newTestRouter(t), multipartRequest(t, "/api/v1/comparables/view", nil, map[string][]byte{"file": buf.Bytes()}))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAnalysisLifecycle(t *testing.T) {
	router := newTestRouter(t)

	req := multipartRequest(t, "/api/v1/analyses",
		map[string]string{"assumptions": `{"holding_days": 120}`},
		map[string][]byte{"pdf": []byte("%PDF-1.7"), "comps": compsXLSX(t)},
	)
	w := serve(router, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created dto.AnalysisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, 120, created.Input.HoldingDays)
	assert.Equal(t, 0.011, created.Input.TaxRate)
	assert.Equal(t, dto.DecisionProceedConditional, created.Verdict.Decision)

	w = serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+created.ID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	var fetched dto.AnalysisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, created.Scenario.ZeroLossMaxBid, fetched.Scenario.ZeroLossMaxBid)

	w = serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/analyses?limit=5", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Analyses []dto.AnalysisSummary `json:"analyses"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Analyses, 1)
	assert.Equal(t, "2024타경12345", list.Analyses[0].CaseNo)
}

func TestCreateAnalysis_RequestLogCarriesAnalysisID(t *testing.T) {
	router := newTestRouter(t)

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	var buf bytes.Buffer
	logger.Init(&logger.Config{Level: "info", Format: "json", Output: &buf})

	w := serve(router, multipartRequest(t, "/api/v1/analyses", nil,
		map[string][]byte{"pdf": []byte("%PDF-1.7"), "comps": compsXLSX(t)},
	))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created dto.AnalysisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	var found bool
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry))
		if entry["msg"] == "http.request.done" {
			found = true
			assert.Equal(t, created.ID, entry["analysis_id"])
			assert.NotEmpty(t, entry["request_id"])
		}
	}
	assert.True(t, found)
}

func TestCreateAnalysis_ReviewedListing(t *testing.T) {
	router := newTestRouter(t)

	listing := `{"appraisal_value": 342000000, "minimum_bid": 273600000, "area_m2": 59.8}`
	w := serve(router, multipartRequest(t, "/api/v1/analyses",
		map[string]string{"listing": listing, "loan_amount": "150000000"},
		map[string][]byte{"comps": compsXLSX(t)},
	))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created dto.AnalysisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, int64(150_000_000), created.Input.LoanAmount)
	assert.Equal(t, int64(273_600_000), created.Input.BidStart)
	assert.Equal(t, dto.MinBidManual, created.Listing.MinimumBidSource)
}

func TestCreateAnalysis_BadRequests(t *testing.T) {
	router := newTestRouter(t)

	w := serve(router, multipartRequest(t, "/api/v1/analyses", nil, map[string][]byte{"comps": compsXLSX(t)}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(router, multipartRequest(t, "/api/v1/analyses", nil, map[string][]byte{"pdf": []byte("%PDF")}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(router, multipartRequest(t, "/api/v1/analyses",
		map[string]string{"assumptions": `{"repair_cost": -5}`},
		map[string][]byte{"pdf": []byte("%PDF"), "comps": compsXLSX(t)},
	))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(router, multipartRequest(t, "/api/v1/analyses",
		map[string]string{"loan_amount": "lots"},
		map[string][]byte{"pdf": []byte("%PDF"), "comps": compsXLSX(t)},
	))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAnalysis_NotFound(t *testing.T) {
	w := serve(newTestRouter(t), httptest.NewRequest(http.MethodGet, "/api/v1/analyses/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
