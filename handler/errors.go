package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/Aashish23092/auction-analyzer/dto"
	"github.com/Aashish23092/auction-analyzer/pkg/logger"
	"github.com/gin-gonic/gin"
)

const (
	codeInvalidRequest = "INVALID_REQUEST"
	codeUnprocessable  = "UNPROCESSABLE_DOCUMENT"
	codeNotFound       = "NOT_FOUND"
	codeTooLarge       = "UPLOAD_TOO_LARGE"
	codeAnalysisFailed = "ANALYSIS_FAILED"
)

// sendError sends a structured error response
func sendError(c *gin.Context, statusCode int, code, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = fmt.Sprintf("%s: %v", message, err)
		logger.Warn(c.Request.Context(), "http.request.failed", "code", code, "error", err)
		_ = c.Error(err)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   code,
		Message: errorMsg,
		Code:    statusCode,
	})
}

// sendServiceError maps a service error onto a status and code.
func sendServiceError(c *gin.Context, message string, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		sendError(c, http.StatusRequestEntityTooLarge, codeTooLarge, message, err)
	case errors.Is(err, dto.ErrListingRequired), errors.Is(err, dto.ErrInvalidAssumptions):
		sendError(c, http.StatusBadRequest, codeInvalidRequest, message, err)
	case errors.Is(err, dto.ErrRequiredColumnsNotFound), errors.Is(err, dto.ErrEmptyWorkbook), errors.Is(err, dto.ErrNoText):
		sendError(c, http.StatusUnprocessableEntity, codeUnprocessable, message, err)
	case errors.Is(err, dto.ErrCaseNotFound):
		sendError(c, http.StatusNotFound, codeNotFound, message, err)
	default:
		sendError(c, http.StatusInternalServerError, codeAnalysisFailed, message, err)
	}
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	return data, nil
}
