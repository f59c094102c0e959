package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	appquery "main/internal/application/service/query"
	interfaces "main/internal/domain/interfaces"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const queryBasePath = "/api/v1"

var errInvalidLimit = errors.New("limit must be a positive integer")

// Pinger re-checks backing store connectivity for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler exposes the analytics engine over HTTP. The query endpoint is the
// surface the orchestration layer calls: one command string in, one rendered
// text block out.
type Handler struct {
	router   *gin.Engine
	engine   *appquery.Service
	audit    interfaces.AuditSink
	store    Pinger
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *logrus.Logger
}

func NewHandler(engine *appquery.Service, audit interfaces.AuditSink, store Pinger, cache *redis.Client, cacheTTL time.Duration, logger *logrus.Logger) *Handler {
	router := gin.New()
	router.Use(gin.Recovery())

	h := &Handler{
		router:   router,
		engine:   engine,
		audit:    audit,
		store:    store,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
	h.registerRoutes()
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	api := h.router.Group(queryBasePath)
	{
		api.POST("/query", h.runQuery)
		api.GET("/audit", h.listAudit)
		api.GET("/health", h.health)
	}
}

type queryPayload struct {
	Command string `json:"command" binding:"required"`
}

type queryResponse struct {
	Result string `json:"result"`
}

// runQuery executes one analytics command. The engine never surfaces errors
// as HTTP failures: malformed commands come back as a 200 with the engine's
// error line in the result, matching the callable-tool contract.
func (h *Handler) runQuery(c *gin.Context) {
	var payload queryPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}

	ctx := c.Request.Context()
	cacheKey := "cache:query:" + payload.Command

	if h.cache != nil {
		if cached, err := h.cache.Get(ctx, cacheKey).Result(); err == nil {
			c.JSON(http.StatusOK, queryResponse{Result: cached})
			return
		}
	}

	result := h.engine.Execute(ctx, payload.Command)

	if h.cache != nil {
		if err := h.cache.Set(ctx, cacheKey, result, h.cacheTTL).Err(); err != nil {
			h.logger.WithError(err).Warn("failed to cache query result")
		}
	}

	c.JSON(http.StatusOK, queryResponse{Result: result})
}

type auditEntryPayload struct {
	ID       string `json:"id"`
	Command  string `json:"command"`
	IssuedAt string `json:"issued_at"`
}

// listAudit returns the command audit trail, oldest first. An optional limit
// query param restricts the response to the most recent entries.
func (h *Handler) listAudit(c *gin.Context) {
	entries := h.audit.Entries()

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			writeError(c, http.StatusBadRequest, errInvalidLimit)
			return
		}
		if limit < len(entries) {
			entries = entries[len(entries)-limit:]
		}
	}

	payload := make([]auditEntryPayload, len(entries))
	for i, entry := range entries {
		payload[i] = auditEntryPayload{
			ID:       entry.ID.String(),
			Command:  entry.Command,
			IssuedAt: entry.IssuedAt.Format(time.RFC3339),
		}
	}
	c.JSON(http.StatusOK, gin.H{"entries": payload, "count": len(payload)})
}

// health verifies backing store connectivity.
func (h *Handler) health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"error":  fmt.Sprintf("graph store unreachable: %v", err),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func writeError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}
