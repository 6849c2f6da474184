// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/soundline/internal/catalog"
	"github.com/carterperez-dev/soundline/internal/core"
	"github.com/carterperez-dev/soundline/internal/middleware"
	"github.com/carterperez-dev/soundline/internal/subscription"
)

type Handler struct {
	subscriptions *subscription.Service
	releases      *catalog.Service
	dbStats       func() sql.DBStats
	redisStats    func() *redis.PoolStats
	dbPing        func(ctx context.Context) error
	redisPing     func(ctx context.Context) error
	validator     *validator.Validate
}

type HandlerConfig struct {
	Subscriptions *subscription.Service
	Releases      *catalog.Service
	DBStats       func() sql.DBStats
	RedisStats    func() *redis.PoolStats
	DBPing        func(ctx context.Context) error
	RedisPing     func(ctx context.Context) error
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		subscriptions: cfg.Subscriptions,
		releases:      cfg.Releases,
		dbStats:       cfg.DBStats,
		redisStats:    cfg.RedisStats,
		dbPing:        cfg.DBPing,
		redisPing:     cfg.RedisPing,
		validator:     validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/approvals", h.ListPendingPayments)
		r.Post("/approvals/{paymentID}/approve", h.ApprovePayment)
		r.Post("/approvals/{paymentID}/reject", h.RejectPayment)

		r.Put("/releases/{releaseID}/status", h.SetReleaseStatus)

		r.Get("/stats", h.GetSystemStats)
		r.Get("/stats/db", h.GetDatabaseStats)
		r.Get("/stats/redis", h.GetRedisStats)
		r.Get("/stats/runtime", h.GetRuntimeStats)
	})
}

func (h *Handler) ListPendingPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.subscriptions.ListPending(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, payments)
}

func (h *Handler) ApprovePayment(w http.ResponseWriter, r *http.Request) {
	h.reviewPayment(w, r, h.subscriptions.Approve)
}

func (h *Handler) RejectPayment(w http.ResponseWriter, r *http.Request) {
	h.reviewPayment(w, r, h.subscriptions.Reject)
}

func (h *Handler) reviewPayment(
	w http.ResponseWriter,
	r *http.Request,
	review func(ctx context.Context, reviewerID, paymentID string, note *string) error,
) {
	reviewerID := middleware.GetUserID(r.Context())

	paymentID := chi.URLParam(r, "paymentID")
	if paymentID == "" {
		core.BadRequest(w, "payment ID required")
		return
	}

	var req subscription.ReviewRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			core.BadRequest(w, "invalid request body")
			return
		}
		if err := h.validator.Struct(req); err != nil {
			core.BadRequest(w, core.FormatValidationError(err))
			return
		}
	}

	if err := review(r.Context(), reviewerID, paymentID, req.Note); err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "payment")
		case errors.Is(err, subscription.ErrAlreadyReviewed):
			core.Conflict(w, "payment already reviewed")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.NoContent(w)
}

type releaseStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected distributed draft"`
}

func (h *Handler) SetReleaseStatus(w http.ResponseWriter, r *http.Request) {
	releaseID := chi.URLParam(r, "releaseID")
	if releaseID == "" {
		core.BadRequest(w, "release ID required")
		return
	}

	var req releaseStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	err := h.releases.SetReleaseStatus(r.Context(), releaseID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "release")
		case errors.Is(err, catalog.ErrInvalidTransition):
			core.Conflict(w, "invalid status transition")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.NoContent(w)
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dbHealthy := true
	if h.dbPing != nil {
		if err := h.dbPing(ctx); err != nil {
			dbHealthy = false
		}
	}

	redisHealthy := true
	if h.redisPing != nil {
		if err := h.redisPing(ctx); err != nil {
			redisHealthy = false
		}
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	response := SystemStatsResponse{
		Database: DatabaseStatus{
			Healthy: dbHealthy,
			Stats:   h.getDBStats(),
		},
		Redis: RedisStatus{
			Healthy: redisHealthy,
			Stats:   h.getRedisStats(),
		},
		Runtime: RuntimeStats{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			NumCPU:       runtime.NumCPU(),
			MemAlloc:     memStats.Alloc,
			MemSys:       memStats.Sys,
			NumGC:        memStats.NumGC,
		},
	}

	core.OK(w, response)
}

func (h *Handler) GetDatabaseStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.getDBStats())
}

func (h *Handler) GetRedisStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.getRedisStats())
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	response := RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     memStats.Alloc,
		MemSys:       memStats.Sys,
		NumGC:        memStats.NumGC,
	}

	core.OK(w, response)
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	stats := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
		MaxIdleClosed:      stats.MaxIdleClosed,
		MaxIdleTimeClosed:  stats.MaxIdleTimeClosed,
		MaxLifetimeClosed:  stats.MaxLifetimeClosed,
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	stats := h.redisStats()
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
		StaleConns: stats.StaleConns,
	}
}

type SystemStatsResponse struct {
	Database DatabaseStatus `json:"database"`
	Redis    RedisStatus    `json:"redis"`
	Runtime  RuntimeStats   `json:"runtime"`
}

type DatabaseStatus struct {
	Healthy bool         `json:"healthy"`
	Stats   *DBPoolStats `json:"stats,omitempty"`
}

type RedisStatus struct {
	Healthy bool            `json:"healthy"`
	Stats   *RedisPoolStats `json:"stats,omitempty"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"max_open_connections"`
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"wait_count"`
	WaitDuration       string `json:"wait_duration"`
	MaxIdleClosed      int64  `json:"max_idle_closed"`
	MaxIdleTimeClosed  int64  `json:"max_idle_time_closed"`
	MaxLifetimeClosed  int64  `json:"max_lifetime_closed"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
	StaleConns uint32 `json:"stale_conns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
	MemSys       uint64 `json:"mem_sys_bytes"`
	NumGC        uint32 `json:"num_gc"`
}
