// Inquiry HTTP handlers.
//
// This file exposes REST endpoints for inquiry resources:
//   - GET    /api/inquiries           (list newest first, ETag support)
//   - POST   /api/inquiries           (create, optional Idempotency-Key)
//   - DELETE /api/inquiries/{id}      (idempotent delete)
//   - POST   /api/consultations       (structured consultation form)
//   - GET    /inquiries               (server-rendered staff list)
//
// Handlers are transport-thin: they parse input, call the inquiry service,
// and translate results into HTTP responses (including conditional responses).
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/flexai-site/internal/domain"
	"github.com/tbourn/flexai-site/internal/http/apierror"
	"github.com/tbourn/flexai-site/internal/http/middleware"
	"github.com/tbourn/flexai-site/internal/services"
	"github.com/tbourn/flexai-site/internal/utils"
)

// InquiryService defines the inquiry operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type InquiryService interface {
	// List returns up to limit inquiries, newest first.
	List(ctx context.Context, limit int) ([]domain.Inquiry, error)
	// Stats returns the row count and newest createdAt for ETags.
	Stats(ctx context.Context) (int64, *time.Time, error)
	// CreateIdempotent validates and stores a form or consultation inquiry,
	// replaying the first result for a repeated (scope, key).
	CreateIdempotent(ctx context.Context, scope, key string, f domain.InquiryFields, c *services.Consultation) (uint64, bool, error)
	// Delete removes an inquiry; a missing id is not an error.
	Delete(ctx context.Context, id uint64) error
	// Backend names the storage backend chosen at startup.
	Backend() string
}

// Handlers groups the inquiry HTTP endpoints.
type Handlers struct {
	svc InquiryService
}

// New constructs and returns a Handlers instance bound to svc.
func New(svc InquiryService) *Handlers {
	return &Handlers{svc: svc}
}

//
// DTOs
//

// CreateInquiryRequest is the JSON payload for the inquiry form.
type CreateInquiryRequest struct {
	Name    string `json:"name" example:"김철수"`
	Email   string `json:"email" example:"chulsoo@example.com"`
	Phone   string `json:"phone" example:"010-1234-5678"`
	Title   string `json:"title" example:"도입 문의"`
	Message string `json:"message" example:"데모 일정을 잡고 싶습니다."`
}

// CreateConsultationRequest is the JSON payload for the consultation form.
type CreateConsultationRequest struct {
	Name         string   `json:"name" example:"김철수"`
	Email        string   `json:"email" example:"chulsoo@example.com"`
	Phone        string   `json:"phone" example:"010-1234-5678"`
	JobTitle     string   `json:"jobTitle" example:"마케팅 팀장"`
	Interests    []string `json:"interests" example:"AI 챗봇,데이터 분석"`
	Difficulties []string `json:"difficulties" example:"인력 부족"`
	Message      string   `json:"message" example:"상담 가능한 시간을 알려주세요."`
}

// ListInquiriesResponse wraps the newest inquiries.
type ListInquiriesResponse struct {
	OK    bool             `json:"ok" example:"true"`
	Items []domain.Inquiry `json:"items"`
}

// CreateInquiryResponse carries the id assigned by storage.
type CreateInquiryResponse struct {
	OK bool   `json:"ok" example:"true"`
	ID uint64 `json:"id" example:"42"`
}

// OKResponse is the body of operations that return no data.
type OKResponse struct {
	OK bool `json:"ok" example:"true"`
}

//
// Helpers
//

// listLimit parses ?limit= and clamps it. Missing or non-numeric values use
// the default.
func listLimit(c *gin.Context) int {
	return utils.AtoiBounded(c.Query("limit"), services.DefaultListLimit, services.MinListLimit, services.MaxListLimit)
}

// listETag is a weak validator over the store aggregate and the limit.
func listETag(count int64, latest *time.Time, limit int) string {
	var ts int64
	if latest != nil {
		ts = latest.UnixNano()
	}
	return fmt.Sprintf(`W/"inquiries:%d:%d:%d"`, count, ts, limit)
}

// create runs the shared create path for both forms.
func (h *Handlers) create(c *gin.Context, f domain.InquiryFields, cons *services.Consultation) {
	key, _ := middleware.GetIdempotencyKey(c)
	id, replayed, err := h.svc.CreateIdempotent(c.Request.Context(), middleware.IdempotencyScope(c), key, f, cons)
	if err != nil {
		failWith(c, err, apierror.CodeCreateFailed)
		return
	}
	if replayed {
		c.Header(middleware.HeaderIdempotentReplayed, "true")
	}
	ok(c, http.StatusCreated, CreateInquiryResponse{OK: true, ID: id})
}

//
// Handlers
//

// ListInquiries godoc
// @ID          listInquiries
// @Summary     List recent inquiries
// @Description Returns the newest inquiries first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Inquiries
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"inquiries:3:1700000000000000000:20\")
// @Param       limit          query   int     false "Maximum items"               minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListInquiriesResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} apierror.Response "Backend failure"
// @Router      /inquiries [get]
func (h *Handlers) ListInquiries(c *gin.Context) {
	ctx := c.Request.Context()
	limit := listLimit(c)

	// ETag pre-check (best effort).
	if count, latest, err := h.svc.Stats(ctx); err == nil {
		etag := listETag(count, latest, limit)
		c.Header("ETag", etag)
		c.Header("Cache-Control", "no-cache")
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	items, err := h.svc.List(ctx, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, apierror.CodeListFailed, err)
		return
	}
	ok(c, http.StatusOK, ListInquiriesResponse{OK: true, Items: items})
}

// CreateInquiry godoc
// @ID          createInquiry
// @Summary     Submit an inquiry
// @Description Trims and truncates every field server-side; name, title and message are required. Repeating a request with the same Idempotency-Key returns the original id.
// @Tags        Inquiries
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Retry-safe key"  example(6f1d0c2e-form-1)
// @Param       body             body    handlers.CreateInquiryRequest  true  "Inquiry payload"
//
// @Success     201  {object}  handlers.CreateInquiryResponse
// @Header      201  {string}  Idempotent-Replayed  "true when served from a previous request"
// @Failure     400  {object}  apierror.Response  "Malformed body or missing required field"
// @Failure     409  {object}  apierror.Response  "Idempotency key in use"
// @Failure     422  {object}  apierror.Response  "Idempotency key reused with a different body"
// @Failure     429  {object}  apierror.Response  "Rate limited"
// @Failure     500  {object}  apierror.Response  "Backend failure"
// @Router      /inquiries [post]
func (h *Handlers) CreateInquiry(c *gin.Context) {
	var req CreateInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, apierror.CodeBadRequest, nil)
		return
	}
	h.create(c, domain.InquiryFields{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Title:   req.Title,
		Message: req.Message,
	}, nil)
}

// CreateConsultation godoc
// @ID          createConsultation
// @Summary     Submit a consultation request
// @Description Composes the title from the selected interests and the message from job title, difficulties and free text, then stores it as an inquiry.
// @Tags        Inquiries
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Retry-safe key"  example(6f1d0c2e-consult-1)
// @Param       body             body    handlers.CreateConsultationRequest  true  "Consultation payload"
//
// @Success     201  {object}  handlers.CreateInquiryResponse
// @Failure     400  {object}  apierror.Response  "Malformed body or missing required field"
// @Failure     409  {object}  apierror.Response  "Idempotency key in use"
// @Failure     422  {object}  apierror.Response  "Idempotency key reused with a different body"
// @Failure     500  {object}  apierror.Response  "Backend failure"
// @Router      /consultations [post]
func (h *Handlers) CreateConsultation(c *gin.Context) {
	var req CreateConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, apierror.CodeBadRequest, nil)
		return
	}
	h.create(c, domain.InquiryFields{}, &services.Consultation{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		JobTitle:     req.JobTitle,
		Interests:    req.Interests,
		Difficulties: req.Difficulties,
		Message:      req.Message,
	})
}

// DeleteInquiry godoc
// @ID          deleteInquiry
// @Summary     Delete an inquiry
// @Description Removes the inquiry if present. Deleting an id that does not exist also succeeds.
// @Tags        Inquiries
// @Produce     json
//
// @Param       id  path  int  true  "Inquiry ID"  minimum(1) example(42)
//
// @Success     200  {object} handlers.OKResponse
// @Failure     400  {object} apierror.Response "Invalid id"
// @Failure     500  {object} apierror.Response "Backend failure"
// @Router      /inquiries/{id} [delete]
func (h *Handlers) DeleteInquiry(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		fail(c, http.StatusBadRequest, apierror.CodeInvalidID, nil)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		fail(c, http.StatusInternalServerError, apierror.CodeDeleteFailed, err)
		return
	}
	ok(c, http.StatusOK, OKResponse{OK: true})
}

// InquiryPage renders the staff list view with the "inquiries.html"
// template. Field values reach the page only through html/template, which
// escapes them for their context.
func (h *Handlers) InquiryPage(c *gin.Context) {
	limit := listLimit(c)
	items, err := h.svc.List(c.Request.Context(), limit)
	if err != nil {
		lg := middleware.LoggerFrom(c)
		lg.Error().Err(err).Msg("inquiry page list failed")
		c.HTML(http.StatusInternalServerError, "inquiries.html", gin.H{
			"Error":   apierror.Message(c.GetHeader("Accept-Language"), apierror.CodeListFailed),
			"Backend": h.svc.Backend(),
		})
		return
	}
	c.HTML(http.StatusOK, "inquiries.html", gin.H{
		"Items":   items,
		"Limit":   limit,
		"Backend": h.svc.Backend(),
	})
}
