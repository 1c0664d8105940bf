package dto

import "errors"

// Custom errors
var (
	ErrRequiredColumnsNotFound = errors.New("required columns not found")
	ErrEmptyWorkbook           = errors.New("workbook has no rows")
	ErrNoText                  = errors.New("no text could be extracted from the document")
	ErrCaseNotFound            = errors.New("analysis not found")
	ErrInvalidAssumptions      = errors.New("assumptions contain negative values")
	ErrListingRequired         = errors.New("either a pdf or a reviewed listing is required")
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
