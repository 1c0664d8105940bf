package dto

import (
	"errors"
	"mime/multipart"
)

// AnalysisRequest is the multipart form of POST /analyses.
// Either PDF or Listing must be present; Listing wins when both are sent.
type AnalysisRequest struct {
	PDF         *multipart.FileHeader `form:"pdf"`
	Password    string                `form:"password"`
	Listing     string                `form:"listing"`
	Comps       *multipart.FileHeader `form:"comps"`
	Assumptions string                `form:"assumptions"`
	Loan        string                `form:"loan_amount"`
}

// Validate performs basic validation on the request
func (r *AnalysisRequest) Validate() error {
	if r.PDF == nil && r.Listing == "" {
		return ErrListingRequired
	}
	if r.Comps == nil {
		return errors.New("comps file is required")
	}
	return nil
}
