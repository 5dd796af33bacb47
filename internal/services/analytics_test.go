package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/localnerve/roomscan-api/internal/models"
	"github.com/localnerve/roomscan-api/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClickAnalytics(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	seeded := seedProducts(t, db,
		models.Product{Name: "Bins", Merchant: "Amazon", IsActive: true},
		models.Product{Name: "Lamp", Merchant: "IKEA", IsActive: true},
		models.Product{Name: "Shelf", Merchant: "Wayfair", IsActive: true},
	)

	clicks := []models.AffiliateClick{
		{ProductID: seeded[1].ID, ClickedAt: now.Add(-time.Hour)},
		{ProductID: seeded[1].ID, ClickedAt: now.Add(-2 * time.Hour)},
		{ProductID: seeded[0].ID, ClickedAt: now.Add(-3 * time.Hour)},
		{ProductID: seeded[2].ID, ClickedAt: now.Add(-10 * 24 * time.Hour)},
	}
	for i := range clicks {
		require.NoError(t, db.Omit("Product").Create(&clicks[i]).Error)
	}

	stats, err := ClickAnalytics(ctx, db, 7, now)
	require.NoError(t, err)
	assert.Equal(t, []ClickStat{
		{ProductID: seeded[1].ID, ProductName: "Lamp", Merchant: "IKEA", ClickCount: 2},
		{ProductID: seeded[0].ID, ProductName: "Bins", Merchant: "Amazon", ClickCount: 1},
	}, stats)

	stats, err = ClickAnalytics(ctx, db, 30, now)
	require.NoError(t, err)
	assert.Len(t, stats, 3)

	_, err = ClickAnalytics(ctx, db, 0, now)
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestClickAnalyticsEmpty(t *testing.T) {
	db := setupTestDB(t)

	stats, err := ClickAnalytics(context.Background(), db, DefaultAnalyticsDays, time.Now().UTC())
	require.NoError(t, err)
	assert.NotNil(t, stats)
	assert.Empty(t, stats)
}

func TestRecordActivity(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	activity, err := RecordActivity(ctx, db, ActivityInput{
		UserID:       ptr(uint64(5)),
		ActivityType: "app_open",
		Metadata:     json.RawMessage(`{"screen":"home"}`),
	})
	require.NoError(t, err)
	assert.NotZero(t, activity.ID)
	assert.Equal(t, "app_open", activity.ActivityType)

	_, err = RecordActivity(ctx, db, ActivityInput{})
	assert.ErrorIs(t, err, types.ErrInvalidInput)

	_, err = RecordActivity(ctx, db, ActivityInput{ActivityType: "x", Metadata: json.RawMessage(`{`)})
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestRecordMetric(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	metric, err := RecordMetric(ctx, db, MetricInput{MetricName: "scan_duration", MetricValue: ptr(1.5)})
	require.NoError(t, err)
	assert.Equal(t, 1.5, metric.MetricValue)

	zero, err := RecordMetric(ctx, db, MetricInput{MetricName: "errors", MetricValue: ptr(0.0)})
	require.NoError(t, err)
	assert.Zero(t, zero.MetricValue)

	_, err = RecordMetric(ctx, db, MetricInput{MetricName: "missing_value"})
	assert.ErrorIs(t, err, types.ErrInvalidInput)

	_, err = RecordMetric(ctx, db, MetricInput{MetricValue: ptr(2.0)})
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestSummarize(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seeded := seedProducts(t, db,
		models.Product{Name: "Bins", IsActive: true},
		models.Product{Name: "Old", IsActive: false},
	)

	_, err := CreateRoom(ctx, db, RoomInput{Name: "One"})
	require.NoError(t, err)
	_, err = CreateRoom(ctx, db, RoomInput{Name: "Two"})
	require.NoError(t, err)
	_, _, err = RecordClick(ctx, db, ClickInput{ProductID: seeded[0].ID})
	require.NoError(t, err)

	summary, err := Summarize(ctx, db, 1, time.Now().UTC().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, &Summary{
		WindowDays:      1,
		RoomsTotal:      2,
		ActiveProducts:  1,
		RoomScans:       2,
		AffiliateClicks: 1,
		Activities:      3,
	}, summary)

	_, err = Summarize(ctx, db, -1, time.Now())
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}
