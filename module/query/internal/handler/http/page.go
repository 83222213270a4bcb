package http

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"github.com/TheFoister/kgm-checker/module/query/domain"
	"github.com/TheFoister/kgm-checker/module/query/internal/repository/ratelimit"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type plateChecker interface {
	Check(ctx context.Context, source domain.Source, plate string) (*domain.UpstreamResponse, error)
}

// PageHandler serves the query form. With scripting the page talks to
// /api/check itself; a plain form POST is rendered here instead.
type PageHandler struct {
	svc     plateChecker
	limiter ratelimit.Limiter
}

func NewPageHandler(svc plateChecker, limiter ratelimit.Limiter) *PageHandler {
	return &PageHandler{svc: svc, limiter: limiter}
}

func (h *PageHandler) Register(r *gin.RouterGroup) {
	r.GET("/", h.Index)
	r.POST("/", RateLimit(h.limiter, rejectPage), h.Submit)
}

func (h *PageHandler) Index(c *gin.Context) {
	renderPage(c, http.StatusOK, idleView())
}

func (h *PageHandler) Submit(c *gin.Context) {
	plate := domain.NormalizePlate(c.PostForm("plaka"))

	resp, err := h.svc.Check(c.Request.Context(), domain.SourceForm, plate)
	if errors.Is(err, domain.ErrPlateRequired) {
		renderPage(c, http.StatusBadRequest, failureView(plate, domain.MsgPlateRequired))
		return
	}
	if err != nil {
		log.Printf("query kgm: %v", err)
		renderPage(c, http.StatusInternalServerError, failureView(plate, domain.MsgQueryFailed))
		return
	}

	res, err := domain.DecodeResult(resp.Body)
	if err != nil {
		log.Printf("decode kgm result: %v", err)
		renderPage(c, http.StatusOK, failureView(plate, ""))
		return
	}
	renderPage(c, http.StatusOK, resultView(plate, res))
}

func rejectPage(c *gin.Context) {
	renderPage(c, http.StatusTooManyRequests, failureView(domain.NormalizePlate(c.PostForm("plaka")), domain.MsgRateLimited))
}

func renderPage(c *gin.Context, status int, view pageView) {
	c.Render(status, render.HTML{Template: pageTemplate, Name: "index.html", Data: view})
}
