package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Aashish23092/auction-analyzer/dto"
)

var reRightsRow = regexp.MustCompile(
	`(\d+)\((갑|을)\d+\)\s*(\d{4}\.\d{2}\.\d{2})\s*([가-힣]+)\s*([^0-9]+?)\s*(` + moneyPattern + `)\s*원\s*(말소기준등기)?\s*(소멸|인수|존속)?`,
)

// ParseRightsRows collects every lien/registration row in document order.
func ParseRightsRows(flat string) []dto.RightsRow {
	var rows []dto.RightsRow
	for _, m := range reRightsRow.FindAllStringSubmatch(flat, -1) {
		seq, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		amount, ok := ParseMoney(m[6])
		if !ok {
			continue
		}
		rows = append(rows, dto.RightsRow{
			Seq:    seq,
			Class:  dto.RightsClass(m[2]),
			Date:   m[3],
			Kind:   strings.TrimSpace(m[4]),
			Holder: Flatten(m[5]),
			Amount: amount,
			IsBase: m[7] != "",
			Status: dto.RightsStatus(m[8]),
		})
	}
	return rows
}

// BaseRight returns the row marked as the lien-extinguishment base entry.
func BaseRight(rows []dto.RightsRow) (dto.RightsRow, bool) {
	for _, r := range rows {
		if r.IsBase {
			return r, true
		}
	}
	return dto.RightsRow{}, false
}

// SummarizeRights describes the rights table in one line. It returns false
// for an empty table.
func SummarizeRights(rows []dto.RightsRow) (string, bool) {
	if len(rows) == 0 {
		return "", false
	}
	if base, ok := BaseRight(rows); ok {
		return fmt.Sprintf("말소기준등기: %s %s(%s)", base.Date, base.Kind, base.Holder), true
	}
	return fmt.Sprintf("등기 표 파싱 %d건(말소기준등기 표기 미발견)", len(rows)), true
}
