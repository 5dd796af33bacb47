package handlers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/roomscan-api/internal/services"
	"github.com/localnerve/roomscan-api/internal/types"
	"github.com/localnerve/roomscan-api/internal/utils"
	"gorm.io/gorm"
)

// AnalyticsHandler handles analytics routes
type AnalyticsHandler struct {
	DB *gorm.DB
	// Now returns the end of reporting windows; defaults to the current UTC time
	Now func() time.Time
}

// ActivityRequest is the body of POST /api/analytics/activity
type ActivityRequest struct {
	UserID       *types.FlexUint64 `json:"user_id" swaggertype:"integer"`
	ActivityType string            `json:"activity_type"`
	Metadata     json.RawMessage   `json:"metadata" swaggertype:"object"`
}

// MetricRequest is the body of POST /api/analytics/metrics
type MetricRequest struct {
	MetricName  string          `json:"metric_name"`
	MetricValue *float64        `json:"metric_value"`
	Metadata    json.RawMessage `json:"metadata" swaggertype:"object"`
}

func (h *AnalyticsHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

// ClickAnalytics handles GET /api/analytics/clicks
// @Summary Affiliate clicks per product
// @Description Click counts per product over a trailing window, most clicked first
// @Tags Analytics
// @Produce json
// @Param days query integer false "Window in days" default(30)
// @Success 200 {array} services.ClickStat
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /analytics/clicks [get]
func (h *AnalyticsHandler) ClickAnalytics(c *fiber.Ctx) error {
	days, err := queryInt(c, "days", services.DefaultAnalyticsDays)
	if err != nil {
		return badRequest(c, err, "clickAnalytics")
	}

	stats, err := services.ClickAnalytics(c.UserContext(), h.DB, days, h.now())
	if err != nil {
		return serviceError(c, err, fiber.StatusBadRequest, "clickAnalytics")
	}

	return utils.SuccessResponse(c, stats, fiber.StatusOK)
}

// RecordActivity handles POST /api/analytics/activity
// @Summary Record a user activity
// @Tags Analytics
// @Accept json
// @Produce json
// @Param body body ActivityRequest true "Activity"
// @Success 201 {object} models.UserActivity
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /analytics/activity [post]
func (h *AnalyticsHandler) RecordActivity(c *fiber.Ctx) error {
	var req ActivityRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err, "recordActivity")
	}

	activity, err := services.RecordActivity(c.UserContext(), h.DB, services.ActivityInput{
		UserID:       types.OptionalUint64(req.UserID),
		ActivityType: req.ActivityType,
		Metadata:     req.Metadata,
	})
	if err != nil {
		return serviceError(c, err, fiber.StatusBadRequest, "recordActivity")
	}

	return utils.SuccessResponse(c, activity, fiber.StatusCreated)
}

// RecordMetric handles POST /api/analytics/metrics
// @Summary Record an application metric
// @Tags Analytics
// @Accept json
// @Produce json
// @Param body body MetricRequest true "Metric sample"
// @Success 201 {object} models.AppMetrics
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /analytics/metrics [post]
func (h *AnalyticsHandler) RecordMetric(c *fiber.Ctx) error {
	var req MetricRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err, "recordMetric")
	}

	metric, err := services.RecordMetric(c.UserContext(), h.DB, services.MetricInput{
		MetricName:  req.MetricName,
		MetricValue: req.MetricValue,
		Metadata:    req.Metadata,
	})
	if err != nil {
		return serviceError(c, err, fiber.StatusBadRequest, "recordMetric")
	}

	return utils.SuccessResponse(c, metric, fiber.StatusCreated)
}

// Summary handles GET /api/analytics/summary
// @Summary Usage summary
// @Description Totals of rooms and active products, and event counts over a trailing window
// @Tags Analytics
// @Produce json
// @Param days query integer false "Window in days" default(30)
// @Success 200 {object} services.Summary
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /analytics/summary [get]
func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	days, err := queryInt(c, "days", services.DefaultAnalyticsDays)
	if err != nil {
		return badRequest(c, err, "analyticsSummary")
	}

	summary, err := services.Summarize(c.UserContext(), h.DB, days, h.now())
	if err != nil {
		return serviceError(c, err, fiber.StatusBadRequest, "analyticsSummary")
	}

	return utils.SuccessResponse(c, summary, fiber.StatusOK)
}
