package service

import (
	"bytes"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/Aashish23092/auction-analyzer/dto"
	"github.com/xuri/excelize/v2"
)

const (
	minComparableArea  = 5.0
	minComparablePrice = 10_000_000
	headerScanRows     = 20 // official exports put search conditions above the header
	manwon             = 10_000
)

var (
	exactAreaHeaders  = []string{"전용면적(㎡)", "전용면적"}
	exactPriceHeaders = []string{"거래금액", "거래금액(원)", "매매금액"}
)

// view columns, in display order
const (
	colContractMonth = "계약년월"
	colDistrict      = "시군구"
	colLotNumber     = "번지"
	colBuildingName  = "건물명"
	colUnitPrice     = "면적단가"
	colFloor         = "층"
	colBuiltYear     = "건축년도"
)

// CompsLoader reads comparable-sale spreadsheets.
type CompsLoader struct {
	logger *slog.Logger
}

func NewCompsLoader(logger *slog.Logger) *CompsLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &CompsLoader{logger: logger}
}

// compsTable is the first sheet cut at its header row.
type compsTable struct {
	header   []string
	rows     [][]string
	areaCol  int
	priceCol int
	// priceScale converts the price column to 원
	priceScale float64
}

// Load returns the usable comparables. Rows with a missing or implausible area
// or price are dropped; a table without resolvable area and price columns is
// an error wrapping dto.ErrRequiredColumnsNotFound.
func (l *CompsLoader) Load(data []byte) ([]dto.ComparableSale, error) {
	tbl, err := readCompsTable(data)
	if err != nil {
		return nil, err
	}

	sales := make([]dto.ComparableSale, 0, len(tbl.rows))
	for _, row := range tbl.rows {
		area, price, ok := tbl.areaPrice(row)
		if !ok {
			continue
		}
		sales = append(sales, dto.ComparableSale{AreaM2: area, Price: price})
	}

	l.logger.Info("comps.load.ok", "rows", len(tbl.rows), "kept", len(sales), "dropped", len(tbl.rows)-len(sales))
	return sales, nil
}

// LoadView returns the browsable table: more columns, basement rows (floor -1)
// removed and a unit price derived when the sheet has none.
func (l *CompsLoader) LoadView(data []byte) (dto.ComparablesView, error) {
	tbl, err := readCompsTable(data)
	if err != nil {
		return dto.ComparablesView{}, err
	}

	idx := make(map[string]int, len(tbl.header))
	for i, h := range tbl.header {
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	text := func(row []string, name string) string {
		if i, ok := idx[name]; ok {
			return cell(row, i)
		}
		return ""
	}

	rows := make([]dto.ComparableViewRow, 0, len(tbl.rows))
	for _, row := range tbl.rows {
		area, price, ok := tbl.areaPrice(row)
		if !ok {
			continue
		}
		floor := optionalInt(text(row, colFloor))
		if floor != nil && *floor == -1 {
			continue
		}

		unit, ok := parseNumber(text(row, colUnitPrice))
		if !ok {
			unit = math.RoundToEven(float64(price) / area)
		}

		rows = append(rows, dto.ComparableViewRow{
			ContractMonth: text(row, colContractMonth),
			District:      text(row, colDistrict),
			LotNumber:     text(row, colLotNumber),
			BuildingName:  text(row, colBuildingName),
			AreaM2:        area,
			Price:         price,
			UnitPrice:     int64(unit),
			Floor:         floor,
			BuiltYear:     optionalInt(text(row, colBuiltYear)),
		})
	}

	l.logger.Info("comps.view.ok", "rows", len(tbl.rows), "kept", len(rows))
	return dto.ComparablesView{Rows: rows, TotalRows: len(rows)}, nil
}

// SimilarView keeps the rows within ±window ㎡ of subjectArea and at most
// limit of them. A nil subject area keeps every row; limit <= 0 means no cap.
func SimilarView(view dto.ComparablesView, subjectArea *float64, window float64, limit int) dto.ComparablesView {
	out := dto.ComparablesView{TotalRows: view.TotalRows}
	for _, r := range view.Rows {
		if subjectArea != nil && (r.AreaM2 < *subjectArea-window || r.AreaM2 > *subjectArea+window) {
			continue
		}
		out.Rows = append(out.Rows, r)
		if limit > 0 && len(out.Rows) == limit {
			break
		}
	}
	return out
}

func readCompsTable(data []byte) (*compsTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, dto.ErrEmptyWorkbook
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	var firstHeader []string
	for i := 0; i < len(rows) && i < headerScanRows; i++ {
		header := trimAll(rows[i])
		if isBlank(header) {
			continue
		}
		if firstHeader == nil {
			firstHeader = header
		}
		areaCol, priceCol := resolveColumns(header)
		if areaCol < 0 || priceCol < 0 {
			continue
		}
		scale := 1.0
		if strings.Contains(header[priceCol], "만원") {
			scale = manwon
		}
		return &compsTable{
			header:     header,
			rows:       rows[i+1:],
			areaCol:    areaCol,
			priceCol:   priceCol,
			priceScale: scale,
		}, nil
	}

	if firstHeader == nil {
		return nil, dto.ErrEmptyWorkbook
	}
	return nil, fmt.Errorf("%w: 실거래 엑셀에서 필수 컬럼을 찾지 못했습니다. 컬럼=%v", dto.ErrRequiredColumnsNotFound, firstHeader)
}

// resolveColumns finds the area and price columns, exact names first and then
// by keyword. Missing columns are -1.
func resolveColumns(header []string) (areaCol, priceCol int) {
	areaCol = exactColumn(header, exactAreaHeaders)
	priceCol = exactColumn(header, exactPriceHeaders)

	for i, h := range header {
		if areaCol < 0 && strings.Contains(h, "전용") && strings.Contains(h, "면적") {
			areaCol = i
		}
		if priceCol < 0 && strings.Contains(h, "거래") && (strings.Contains(h, "금액") || strings.Contains(h, "가격")) {
			priceCol = i
		}
	}
	return areaCol, priceCol
}

func exactColumn(header, names []string) int {
	for _, name := range names {
		for i, h := range header {
			if h == name {
				return i
			}
		}
	}
	return -1
}

func (t *compsTable) areaPrice(row []string) (float64, int64, bool) {
	area, ok := parseNumber(cell(row, t.areaCol))
	if !ok || area <= minComparableArea {
		return 0, 0, false
	}
	price, ok := parseNumber(cell(row, t.priceCol))
	if !ok {
		return 0, 0, false
	}
	price *= t.priceScale
	if price <= minComparablePrice || price >= math.MaxInt64 {
		return 0, 0, false
	}
	return area, int64(math.Round(price)), true
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseNumber coerces a cell to a number, tolerating thousands separators.
func parseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func optionalInt(s string) *int {
	v, ok := parseNumber(s)
	if !ok {
		return nil
	}
	n := int(v)
	return &n
}

func trimAll(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

func isBlank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
