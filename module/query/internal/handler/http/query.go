package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TheFoister/kgm-checker/module/query/domain"
	"github.com/TheFoister/kgm-checker/module/query/internal/repository/ratelimit"
)

type queryService interface {
	Check(ctx context.Context, source domain.Source, plate string) (*domain.UpstreamResponse, error)
	Stats(ctx context.Context, since time.Time) (*domain.QueryStats, error)
}

type checkRequest struct {
	Plate string `json:"plaka"`
}

type QueryHandler struct {
	svc     queryService
	limiter ratelimit.Limiter
}

// NewQueryHandler builds the JSON API handler. limiter may be nil.
func NewQueryHandler(svc queryService, limiter ratelimit.Limiter) *QueryHandler {
	return &QueryHandler{svc: svc, limiter: limiter}
}

func (h *QueryHandler) Register(r *gin.RouterGroup) {
	r.POST("/api/check", RateLimit(h.limiter, rejectJSON), h.Check)
}

func (h *QueryHandler) RegisterStats(r *gin.RouterGroup) {
	r.GET("/api/stats", h.Stats)
}

// Check relays the webhook reply byte for byte. Only validation and
// transport failures get a body of our own.
func (h *QueryHandler) Check(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req.Plate = ""
	}

	resp, err := h.svc.Check(c.Request.Context(), domain.SourceHTTP, req.Plate)
	if errors.Is(err, domain.ErrPlateRequired) {
		c.JSON(http.StatusBadRequest, domain.Failure{Message: domain.MsgPlateRequired})
		return
	}
	if err != nil {
		log.Printf("query kgm: %v", err)
		c.JSON(http.StatusInternalServerError, domain.Failure{Message: domain.MsgQueryFailed})
		return
	}

	c.Data(resp.Status, "application/json", resp.Body)
}

// maxStatsHours bounds the stats window to one year.
const maxStatsHours = 24 * 365

func (h *QueryHandler) Stats(c *gin.Context) {
	hours := 24
	if v := c.Query("hours"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hours parameter"})
			return
		}
		hours = min(n, maxStatsHours)
	}

	since := time.Now().Add(-time.Duration(hours) * time.Hour)
	stats, err := h.svc.Stats(c.Request.Context(), since)
	if err != nil {
		log.Printf("query stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func rejectJSON(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, domain.Failure{Message: domain.MsgRateLimited})
}
