package catalog

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"Chococu/pkg/kit"
)

type Server struct {
	Store Store
	Log   *zap.Logger

	// ContactLimiter throttles contact-form submissions per client IP.
	ContactLimiter *kit.IPRateLimiter
	// Inquiries counts accepted submissions by inquiry type.
	Inquiries *prometheus.CounterVec
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.ready)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", s.listProducts)
		r.Get("/products/{id}", s.getProduct)
		r.Get("/cafe-info", s.getCafeInfo)

		var limits []func(http.Handler) http.Handler
		if s.ContactLimiter != nil {
			limits = append(limits, s.ContactLimiter.Middleware)
		}
		r.With(limits...).Post("/contact", s.createInquiry)
	})

	return r
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
	defer cancel()

	if err := s.Store.Ping(ctx); err != nil {
		s.logger().Warn("readyz failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	var (
		products []Product
		err      error
	)

	if raw := r.URL.Query().Get("category"); raw != "" {
		category := Category(strings.ToLower(strings.TrimSpace(raw)))
		if !category.Valid() {
			kit.WriteError(w, r, http.StatusBadRequest, "unknown category", ValidationError{{
				Field:       "category",
				Description: "category must be one of " + categoryList(),
			}})
			return
		}
		products, err = s.Store.ListProductsByCategory(r.Context(), category)
	} else {
		products, err = s.Store.ListProducts(r.Context())
	}

	if err != nil {
		s.logger().Error("list products failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, products)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid product id", map[string]any{"id": raw})
		return
	}

	p, ok, err := s.Store.GetProduct(r.Context(), id)
	if err != nil {
		s.logger().Error("get product failed", zap.Error(err), zap.Int("id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) getCafeInfo(w http.ResponseWriter, r *http.Request) {
	c, ok, err := s.Store.GetCafeInfo(r.Context())
	if err != nil {
		s.logger().Error("get cafe info failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "cafe info not found", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, c)
}

func (s *Server) createInquiry(w http.ResponseWriter, r *http.Request) {
	var in InquiryInput
	if err := kit.DecodeJSON(w, r, &in); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}
	in = normalizeInquiry(in)

	if err := in.Validate(); err != nil {
		var verr ValidationError
		if errors.As(err, &verr) {
			kit.WriteError(w, r, http.StatusBadRequest, "validation failed", verr)
			return
		}
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	q, err := s.Store.CreateInquiry(r.Context(), in)
	if err != nil {
		s.logger().Error("create inquiry failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	if s.Inquiries != nil {
		s.Inquiries.WithLabelValues(inquiryLabel(q.Type)).Inc()
	}
	s.logger().Info("contact inquiry received", zap.Int("id", q.ID), zap.String("type", q.Type))

	kit.WriteJSON(w, http.StatusCreated, q)
}

// normalizeInquiry trims form input; an empty phone is treated as omitted.
func normalizeInquiry(in InquiryInput) InquiryInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)
	in.Type = strings.ToLower(strings.TrimSpace(in.Type))
	if in.Phone != nil {
		phone := strings.TrimSpace(*in.Phone)
		if phone == "" {
			in.Phone = nil
		} else {
			in.Phone = &phone
		}
	}
	return in
}

func (s *Server) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
