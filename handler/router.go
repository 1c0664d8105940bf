package handler

import (
	"net/http"

	"github.com/Aashish23092/auction-analyzer/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers groups everything the router serves.
type Handlers struct {
	Listing  *ListingHandler
	Comps    *CompsHandler
	Analysis *AnalysisHandler
}

// NewRouter wires the middleware chain and the API routes.
func NewRouter(h Handlers, maxUploadBytes int64) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.Recovery(),
		middleware.BodyLimit(maxUploadBytes),
	)
	if maxUploadBytes > 0 {
		router.MaxMultipartMemory = maxUploadBytes
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Auction Analyzer",
		})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/listings/parse", h.Listing.ParseListing)
		api.POST("/comparables/view", h.Comps.ViewComparables)

		analyses := api.Group("/analyses")
		{
			analyses.POST("", h.Analysis.CreateAnalysis)
			analyses.GET("", h.Analysis.ListAnalyses)
			analyses.GET("/:id", h.Analysis.GetAnalysis)
		}
	}
	return router
}
