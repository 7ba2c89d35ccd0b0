package api

import (
	"encoding/json"
	"time"

	models "CryptoPredict/internal/domain/models"
	drepo "CryptoPredict/internal/domain/repository"
	icache "CryptoPredict/internal/service/cache"
	"CryptoPredict/internal/usecase"
	xhttp "CryptoPredict/pkg/http"
	xlogger "CryptoPredict/pkg/logger"
	"CryptoPredict/pkg/util"

	"github.com/labstack/echo/v4"
)

const maxHistoryLimit = 200

// PredictionsHandler exposes the prediction pipeline and its stored
// results over HTTP.
type PredictionsHandler struct {
	logger   *xlogger.Logger
	pipeline *usecase.PredictionPipeline
	store    drepo.PredictionStore
	cache    icache.BytesCache
	cacheTTL time.Duration
}

func NewPredictionsHandler(logger *xlogger.Logger, pipeline *usecase.PredictionPipeline, store drepo.PredictionStore) *PredictionsHandler {
	return &PredictionsHandler{logger: logger, pipeline: pipeline, store: store, cacheTTL: 30 * time.Second}
}

// SetCache enables response caching for the latest-prediction endpoint.
func (h *PredictionsHandler) SetCache(c icache.BytesCache, ttl time.Duration) {
	h.cache = c
	if ttl > 0 {
		h.cacheTTL = ttl
	}
}

func (h *PredictionsHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Root)
	e.GET("/health", h.Health)

	g := e.Group("/api/v1")
	g.POST("/predict", h.Predict)
	g.GET("/history/:asset", h.History)
	g.GET("/latest/:asset", h.Latest)
}

func (h *PredictionsHandler) Root(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]any{
		"service": "crypto-predict",
		"version": "1.0.0",
		"endpoints": []string{
			"POST /api/v1/predict",
			"GET /api/v1/history/:asset",
			"GET /api/v1/latest/:asset",
			"GET /health",
		},
	})
}

func (h *PredictionsHandler) Health(c echo.Context) error {
	if err := h.store.Health(c.Request().Context()); err != nil {
		h.logger.Error("storage health check failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("storage unavailable"))
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *PredictionsHandler) Predict(c echo.Context) error {
	req := &models.PredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	interval := string(drepo.NormalizeTimeframe(req.Interval))

	res, err := h.pipeline.Run(c.Request().Context(), req.Assets, interval)
	if err != nil {
		h.logger.Error("prediction pipeline error",
			xlogger.Strings("assets", req.Assets),
			xlogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *PredictionsHandler) History(c echo.Context) error {
	asset := c.Param("asset")
	if asset == "" {
		return xhttp.BadRequestResponse(c, "asset required")
	}
	limit := util.ParseIntDefault(c.QueryParam("limit"), 50)
	if limit < 1 {
		limit = 1
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	before := util.ParseTimeDefault(c.QueryParam("before"), time.Now().UTC())

	records, err := h.store.History(c.Request().Context(), asset, before, limit)
	if err != nil {
		h.logger.Error("history query error",
			xlogger.String("asset", asset),
			xlogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, err)
	}

	entries := make([]models.HistoryEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, models.HistoryEntry{
			ID:           r.ID,
			Timestamp:    r.Timestamp,
			Asset:        r.Asset,
			Action:       r.Action,
			Reasoning:    r.Reasoning,
			CurrentPrice: r.CurrentPrice,
			Confidence:   r.Confidence,
		})
	}
	return xhttp.ListResponse(c, entries, int64(len(entries)))
}

func (h *PredictionsHandler) Latest(c echo.Context) error {
	asset := c.Param("asset")
	if asset == "" {
		return xhttp.BadRequestResponse(c, "asset required")
	}
	ctx := c.Request().Context()
	cacheKey := "latest:" + asset

	if h.cache != nil {
		if b, ok, err := h.cache.GetBytes(ctx, cacheKey); err != nil {
			h.logger.Warn("latest cache get error", xlogger.Error(err))
		} else if ok {
			var rec models.PredictionRecord
			if err := json.Unmarshal(b, &rec); err == nil {
				return xhttp.SuccessResponse(c, &rec)
			}
		}
	}

	rec, err := h.store.Latest(ctx, asset)
	if err != nil {
		h.logger.Error("latest query error",
			xlogger.String("asset", asset),
			xlogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, err)
	}
	if rec == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no predictions for %s", asset))
	}

	if h.cache != nil {
		if b, err := json.Marshal(rec); err == nil {
			if err := h.cache.SetBytes(ctx, cacheKey, b, h.cacheTTL); err != nil {
				h.logger.Warn("latest cache set error", xlogger.Error(err))
			}
		}
	}
	return xhttp.SuccessResponse(c, rec)
}
