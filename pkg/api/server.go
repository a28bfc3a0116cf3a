// Package api provides the REST API server for playoeis
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/holmesrichards/playoeis/pkg/oeis"
	"github.com/holmesrichards/playoeis/pkg/sequence"
)

// @title playoeis API
// @version 1.0
// @description API for OEIS sequence lookup and MIDI note mapping
// @host localhost:8080
// @BasePath /api/v1

// lookupClient is the OEIS client used by the handlers; replaceable in
// tests
var lookupClient = oeis.NewClient()

// StartServer starts the API server on the specified port
func StartServer(port int) error {
	r := setupRouter()
	return r.Run(fmt.Sprintf(":%d", port))
}

func setupRouter() *gin.Engine {
	r := gin.Default()

	// CORS middleware
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/search", handleSearch)
		v1.GET("/sequence/:id", handleSequence)
		v1.POST("/transform", handleTransform)
		v1.GET("/restcodes", listRestCodes)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "playoeis",
	})
}

// listRestCodes godoc
// @Summary List rest classification codes
// @Description Returns the letters accepted by the rest option and what they match
// @Tags info
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/v1/restcodes [get]
func listRestCodes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"codes": []map[string]string{
			{"code": "n", "matches": "negative values"},
			{"code": "z", "matches": "zero values"},
			{"code": "p", "matches": "positive values"},
			{"code": "nz", "matches": "nonpositive values"},
			{"code": "pz", "matches": "nonnegative values"},
		},
		"note": "letters combine as a union, e.g. nzp rests on everything",
	})
}

// handleSearch godoc
// @Summary Search OEIS
// @Description Searches OEIS with the given term and returns matching entries
// @Tags lookup
// @Produce json
// @Param q query string true "Search term"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/search [get]
func handleSearch(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter q"})
		return
	}

	results, err := lookupClient.Search(term)
	if err != nil {
		var le *oeis.LookupError
		if errors.As(err, &le) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// handleSequence godoc
// @Summary Fetch a sequence
// @Description Returns an entry's name and full term list from its b-file
// @Tags lookup
// @Produce json
// @Param id path string true "Entry ID, e.g. A000045"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Router /api/v1/sequence/{id} [get]
func handleSequence(c *gin.Context) {
	entry, err := lookupClient.Lookup(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	terms, err := lookupClient.FetchTerms(entry.Number)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":    entry.ID(),
		"name":  entry.Name,
		"terms": terms,
	})
}

// transformRequest is the POST /transform body. POff is a pointer so an
// absent offset is distinguishable from an explicit 0.
type transformRequest struct {
	Values []int  `json:"values" binding:"required"`
	PMod   int    `json:"pmod"`
	POff   *int   `json:"poff"`
	Rest   string `json:"rest"`
}

// transformStep is one entry of the transform response
type transformStep struct {
	Note *uint8 `json:"note"` // null for rests
	Rest bool   `json:"rest"`
}

// handleTransform godoc
// @Summary Map raw values to MIDI notes
// @Description Applies the modulus/offset/rest transform to a list of integers
// @Tags transform
// @Accept json
// @Produce json
// @Param request body transformRequest true "Values and transform settings"
// @Success 200 {object} map[string][]transformStep
// @Failure 400 {object} map[string]string
// @Router /api/v1/transform [post]
func handleTransform(c *gin.Context) {
	var req transformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.PMod == 0 {
		req.PMod = 88
	}
	poff := 24
	if req.POff != nil {
		poff = *req.POff
	}

	rest, err := sequence.ParseRestSpec(req.Rest)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	steps, err := sequence.Transform(req.Values, sequence.Options{
		PMod: req.PMod,
		POff: poff,
		Rest: rest,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out := make([]transformStep, len(steps))
	for i, s := range steps {
		if s.Rest {
			out[i] = transformStep{Rest: true}
		} else {
			note := s.Note
			out[i] = transformStep{Note: &note}
		}
	}

	c.JSON(http.StatusOK, gin.H{"steps": out})
}
