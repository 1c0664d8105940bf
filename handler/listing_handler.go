package handler

import (
	"net/http"

	"github.com/Aashish23092/auction-analyzer/pkg/logger"
	"github.com/Aashish23092/auction-analyzer/service"
	"github.com/gin-gonic/gin"
)

type ListingHandler struct {
	listingService *service.ListingService
}

func NewListingHandler(listingService *service.ListingService) *ListingHandler {
	return &ListingHandler{
		listingService: listingService,
	}
}

// ParseListing handles POST /listings/parse: multipart "file" (PDF) and an
// optional "password".
func (h *ListingHandler) ParseListing(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		sendError(c, http.StatusBadRequest, codeInvalidRequest, "file is required", err)
		return
	}
	data, err := readUpload(fh)
	if err != nil {
		sendServiceError(c, "Failed to read upload", err)
		return
	}

	ctx := c.Request.Context()
	logger.Info(ctx, "listing.parse.start", "file", fh.Filename, "bytes", len(data))

	resp, err := h.listingService.ExtractListing(ctx, data, c.PostForm("password"))
	if err != nil {
		sendServiceError(c, "Failed to parse listing", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
