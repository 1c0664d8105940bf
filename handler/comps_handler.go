package handler

import (
	"net/http"
	"strconv"

	"github.com/Aashish23092/auction-analyzer/service"
	"github.com/gin-gonic/gin"
)

type CompsHandler struct {
	loader   *service.CompsLoader
	windowM2 float64
	maxRows  int
}

func NewCompsHandler(loader *service.CompsLoader, windowM2 float64, maxRows int) *CompsHandler {
	return &CompsHandler{
		loader:   loader,
		windowM2: windowM2,
		maxRows:  maxRows,
	}
}

// ViewComparables handles POST /comparables/view: multipart "file" (XLSX)
// and an optional subject "area" in ㎡ that narrows the rows.
func (h *CompsHandler) ViewComparables(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		sendError(c, http.StatusBadRequest, codeInvalidRequest, "file is required", err)
		return
	}

	var area *float64
	if raw := c.PostForm("area"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 {
			sendError(c, http.StatusBadRequest, codeInvalidRequest, "area must be a positive number", err)
			return
		}
		area = &v
	}

	data, err := readUpload(fh)
	if err != nil {
		sendServiceError(c, "Failed to read upload", err)
		return
	}
	view, err := h.loader.LoadView(data)
	if err != nil {
		sendServiceError(c, "Failed to read comparables", err)
		return
	}
	c.JSON(http.StatusOK, service.SimilarView(view, area, h.windowM2, h.maxRows))
}
