package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"notesgenie-backend/internal/middleware"
	"notesgenie-backend/internal/models"
)

const statsCacheTTL = 30 * time.Second

type DashboardHandler struct {
	pool  *pgxpool.Pool
	redis *redis.Client
}

func NewDashboardHandler(pool *pgxpool.Pool, redisClient *redis.Client) *DashboardHandler {
	return &DashboardHandler{pool: pool, redis: redisClient}
}

// Stats aggregates per-user counters. Results are cached briefly in Redis;
// cache errors fall through to Postgres.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	ctx := r.Context()

	cacheKey := fmt.Sprintf("dashboard_stats:%s", userID)
	if h.redis != nil {
		if cached, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
			var stats models.DashboardStats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				writeJSON(w, http.StatusOK, stats)
				return
			}
		}
	}

	var stats models.DashboardStats
	err := h.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM notes WHERE user_id = $1),
			(SELECT COUNT(*) FROM quiz_attempts WHERE user_id = $1),
			COALESCE((
				SELECT MAX(score::float8 / total * 100)
				FROM quiz_attempts
				WHERE user_id = $1 AND total > 0
			), 0)
	`, userID).Scan(&stats.TotalNotes, &stats.TotalAttempts, &stats.BestScore)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch dashboard stats", r))
		return
	}

	if h.redis != nil {
		if data, err := json.Marshal(stats); err == nil {
			if err := h.redis.Set(ctx, cacheKey, data, statsCacheTTL).Err(); err != nil {
				log.Printf("dashboard: stats cache write failed: %v", err)
			}
		}
	}

	writeJSON(w, http.StatusOK, stats)
}
