package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"github.com/EuricoCruz/shodan_enrichment/internal/adapter/http/middleware"
	"github.com/EuricoCruz/shodan_enrichment/internal/domain/entity"
	"github.com/EuricoCruz/shodan_enrichment/internal/integration"
	"github.com/EuricoCruz/shodan_enrichment/internal/usecase/lookup_entities"
	"github.com/EuricoCruz/shodan_enrichment/internal/usecase/retry_entity"
)

// Service interface para permitir mock em testes
type Service interface {
	Lookup(ctx context.Context, entities []entity.Entity, options lookup_entities.Options) ([]entity.LookupResult, error)
	Retry(ctx context.Context, previous entity.LookupResult, options lookup_entities.Options) (*retry_entity.Output, error)
	Descriptor() integration.DescriptorSpec
}

// errorResponse is used for errors that are not Shodan lookup failures
type errorResponse struct {
	Detail string `json:"detail"`
}

type Handler struct {
	service Service
	log     logrus.FieldLogger
}

func NewHandler(service Service, log logrus.FieldLogger) *Handler {
	return &Handler{service: service, log: log}
}

// NewRouter mounts every route with the request logging, panic and API_KEY middlewares
func NewRouter(service Service, log logrus.FieldLogger) http.Handler {
	h := NewHandler(service, log)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer(log))
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.APIKey)

	r.Get("/health", h.Health)
	r.Get("/descriptor", h.Descriptor)
	r.Post("/lookup", h.Lookup)
	r.Post("/retry", h.Retry)
	r.Post("/validate-options", h.ValidateOptions)

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *Handler) Descriptor(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Descriptor())
}

// Lookup answers 200 with one result per eligible entity, or the batch error
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	if err := render.Bind(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	results, err := h.service.Lookup(r.Context(), req.Entities, req.Options)
	if err != nil {
		h.sendError(w, r, err)
		return
	}

	render.JSON(w, r, results)
}

// Retry answers 200 with the refreshed data, 429 while the limiter still drops the entity
func (h *Handler) Retry(w http.ResponseWriter, r *http.Request) {
	var req retryRequest
	if err := render.Bind(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	output, err := h.service.Retry(r.Context(), req.Result, req.Options)
	if err != nil {
		h.sendError(w, r, err)
		return
	}

	render.JSON(w, r, output)
}

func (h *Handler) ValidateOptions(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := render.Bind(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	render.JSON(w, r, integration.ValidateOptions(req.Options))
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, errorResponse{Detail: err.Error()})
}

// sendError maps pipeline errors to status codes
func (h *Handler) sendError(w http.ResponseWriter, r *http.Request, err error) {
	var notice *entity.LimitNotice
	var lookupErr *entity.LookupError

	switch {
	case errors.Is(err, lookup_entities.ErrMissingAPIKey):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Detail: "You must provide a Shodan API key"})
	case errors.As(err, &notice):
		render.Status(r, http.StatusTooManyRequests)
		render.JSON(w, r, notice)
	case errors.As(err, &lookupErr):
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, lookupErr)
	default:
		h.log.WithError(err).Error("Unexpected lookup error")
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errorResponse{Detail: entity.DetailGeneric})
	}
}
