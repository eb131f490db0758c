package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Simplici0/bidcost/internal/constants"
	"github.com/Simplici0/bidcost/internal/estimate"
	"github.com/Simplici0/bidcost/internal/format"
)

const requestTimeout = 30 * time.Second

// backend is what the API needs from the persistence layer beyond the
// estimate service.
type backend interface {
	Ping(ctx context.Context) error
	ListConstants(ctx context.Context) (constants.Table, error)
}

type server struct {
	auth    *authService
	svc     *estimate.Service
	backend backend
}

func newRouter(srv *server, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	if len(corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   corsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(srv.auth.middleware)

	r.Get("/health", srv.handleHealth)
	r.Get("/constants", srv.handleConstants)

	r.Route("/estimates", func(r chi.Router) {
		r.Post("/", srv.handleCreateEstimate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", srv.handleGetEstimate)
			r.Patch("/", srv.handleUpdateTerms)
			r.Post("/preview", srv.handlePreview)
			r.Post("/items", srv.handleAppendItem)
			r.Patch("/items/{itemID}", srv.handleUpdateItemField)
			r.Delete("/items/{itemID}", srv.handleDeleteItem)
			r.Post("/confirm", srv.handleConfirm)
			r.Post("/outcome", srv.handleSetOutcome)
			r.Post("/versions", srv.handleNewVersion)
		})
	})
	r.Get("/proposals/{proposalNo}/ledger", srv.handleLedger)

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.backend.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleConstants(w http.ResponseWriter, r *http.Request) {
	table, err := s.backend.ListConstants(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"fringes":        table.OfType(constants.TypeFringe),
		"categoryColors": table.OfType(constants.TypeCategoryColor),
	})
}

func (s *server) handleCreateEstimate(w http.ResponseWriter, r *http.Request) {
	var req estimate.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	est, err := s.svc.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, est)
}

func (s *server) handleGetEstimate(w http.ResponseWriter, r *http.Request) {
	sheet, err := s.svc.Summary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presentSheet(sheet))
}

func (s *server) handleUpdateTerms(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MarkupPercent any    `json:"markupPercent"`
		Fringe        string `json:"fringe"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	est, err := s.svc.UpdateTerms(r.Context(), chi.URLParam(r, "id"), req.MarkupPercent, req.Fringe)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, est)
}

type lineItemRequest struct {
	Category string         `json:"category"`
	Fields   map[string]any `json:"fields"`
}

func (s *server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req lineItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	total, err := s.svc.Preview(r.Context(), chi.URLParam(r, "id"), req.Category, req.Fields)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":          total,
		"totalFormatted": format.Currency(total),
	})
}

func (s *server) handleAppendItem(w http.ResponseWriter, r *http.Request) {
	var req lineItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	row, err := s.svc.AppendLineItem(r.Context(), chi.URLParam(r, "id"), req.Category, req.Fields)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, presentRow(*row))
}

func (s *server) handleUpdateItemField(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Field string `json:"field"`
		Value any    `json:"value"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Field == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	row, written, err := s.svc.UpdateField(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemID"), req.Field, req.Value)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"item":    presentRow(*row),
		"written": written,
	})
}

func (s *server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteLineItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemID")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	est, err := s.svc.Confirm(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, est)
}

func (s *server) handleSetOutcome(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Outcome estimate.Outcome `json:"outcome"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	est, err := s.svc.SetOutcome(r.Context(), chi.URLParam(r, "id"), req.Outcome)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, est)
}

func (s *server) handleNewVersion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChangeOrder bool `json:"changeOrder"`
	}
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	est, err := s.svc.NewVersion(r.Context(), chi.URLParam(r, "id"), req.ChangeOrder)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, est)
}

func (s *server) handleLedger(w http.ResponseWriter, r *http.Request) {
	l, err := s.svc.Ledger(r.Context(), chi.URLParam(r, "proposalNo"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presentLedger(l))
}
