package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/localnerve/roomscan-api/internal/models"
	"github.com/localnerve/roomscan-api/internal/types"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// DefaultAnalyticsDays is the trailing window when none is requested
const DefaultAnalyticsDays = 30

// ClickStat is the click count of one product over a window
type ClickStat struct {
	ProductID   uint64 `json:"product_id"`
	ProductName string `json:"product_name"`
	Merchant    string `json:"merchant"`
	ClickCount  int64  `json:"click_count"`
}

// ActivityInput is a client reported analytics event
type ActivityInput struct {
	UserID       *uint64         `json:"user_id,omitempty"`
	ActivityType string          `json:"activity_type"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
}

// MetricInput is a client reported numeric sample
type MetricInput struct {
	MetricName  string          `json:"metric_name"`
	MetricValue *float64        `json:"metric_value"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}

// Summary counts analytics rows over a trailing window
type Summary struct {
	WindowDays      int   `json:"window_days"`
	RoomsTotal      int64 `json:"rooms_total"`
	ActiveProducts  int64 `json:"active_products"`
	RoomScans       int64 `json:"room_scans"`
	AffiliateClicks int64 `json:"affiliate_clicks"`
	Activities      int64 `json:"activities"`
}

// windowStart validates a trailing window in days and returns its start
func windowStart(days int, now time.Time) (time.Time, error) {
	if days < 1 {
		return time.Time{}, fmt.Errorf("%w: days must be at least 1", types.ErrInvalidInput)
	}
	return now.Add(-time.Duration(days) * 24 * time.Hour), nil
}

// ClickAnalytics counts affiliate clicks per product since days before now,
// most clicked first
func ClickAnalytics(ctx context.Context, db *gorm.DB, days int, now time.Time) ([]ClickStat, error) {
	since, err := windowStart(days, now)
	if err != nil {
		return nil, err
	}

	stats := make([]ClickStat, 0)
	err = db.WithContext(ctx).
		Clauses(hints.CommentBefore("select", "analytics:clicks")).
		Model(&models.AffiliateClick{}).
		Select("products.id AS product_id, products.name AS product_name, products.merchant AS merchant, COUNT(affiliate_clicks.id) AS click_count").
		Joins("JOIN products ON products.id = affiliate_clicks.product_id").
		Where("affiliate_clicks.clicked_at >= ?", since).
		Group("products.id, products.name, products.merchant").
		Order("click_count DESC").
		Order("products.id").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// RecordActivity stores a client reported activity event
func RecordActivity(ctx context.Context, db *gorm.DB, input ActivityInput) (*models.UserActivity, error) {
	if input.ActivityType == "" {
		return nil, fmt.Errorf("%w: activity_type is required", types.ErrInvalidInput)
	}
	meta, err := models.RawJSON(input.Metadata, "")
	if err != nil {
		return nil, fmt.Errorf("%w: metadata: %v", types.ErrInvalidInput, err)
	}

	activity := models.UserActivity{
		UserID:       input.UserID,
		ActivityType: input.ActivityType,
		Metadata:     meta,
		Timestamp:    time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(&activity).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

// RecordMetric stores a numeric sample
func RecordMetric(ctx context.Context, db *gorm.DB, input MetricInput) (*models.AppMetrics, error) {
	if input.MetricName == "" || input.MetricValue == nil {
		return nil, fmt.Errorf("%w: metric_name and metric_value are required", types.ErrInvalidInput)
	}
	meta, err := models.RawJSON(input.Metadata, "")
	if err != nil {
		return nil, fmt.Errorf("%w: metadata: %v", types.ErrInvalidInput, err)
	}

	metric := models.AppMetrics{
		MetricName:  input.MetricName,
		MetricValue: *input.MetricValue,
		Metadata:    meta,
		Timestamp:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(&metric).Error; err != nil {
		return nil, err
	}
	return &metric, nil
}

// Summarize counts rooms, products and analytics events in the window
func Summarize(ctx context.Context, db *gorm.DB, days int, now time.Time) (*Summary, error) {
	since, err := windowStart(days, now)
	if err != nil {
		return nil, err
	}

	summary := &Summary{WindowDays: days}
	q := db.WithContext(ctx).
		Clauses(hints.CommentBefore("select", "analytics:summary")).
		Session(&gorm.Session{})

	counts := []struct {
		dest  *int64
		model interface{}
		where string
		args  []interface{}
	}{
		{&summary.RoomsTotal, &models.Room{}, "", nil},
		{&summary.ActiveProducts, &models.Product{}, "is_active = ?", []interface{}{true}},
		{&summary.RoomScans, &models.RoomScan{}, "recorded_at >= ?", []interface{}{since}},
		{&summary.AffiliateClicks, &models.AffiliateClick{}, "clicked_at >= ?", []interface{}{since}},
		{&summary.Activities, &models.UserActivity{}, "recorded_at >= ?", []interface{}{since}},
	}
	for _, c := range counts {
		stmt := q.Model(c.model)
		if c.where != "" {
			stmt = stmt.Where(c.where, c.args...)
		}
		if err := stmt.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	return summary, nil
}
