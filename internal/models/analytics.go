package models

import (
	"time"
)

// Activity types recorded by the service itself
const (
	ActivityRoomScan     = "room_scan"
	ActivityProductClick = "product_click"
)

// UserActivity is a generic analytics event
type UserActivity struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       *uint64   `gorm:"index" json:"user_id"`
	ActivityType string    `gorm:"size:50;not null;index" json:"activity_type"`
	Metadata     JSON      `json:"metadata"`
	Timestamp    time.Time `gorm:"column:recorded_at;not null;index" json:"timestamp"`
}

// RoomScan records a submitted scan together with the suggestions it produced
type RoomScan struct {
	ID                      uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID                  *uint64   `gorm:"index" json:"user_id"`
	RoomID                  *uint64   `gorm:"index" json:"room_id"`
	RoomType                string    `gorm:"size:50" json:"room_type"`
	ScanData                JSON      `json:"scan_data"`
	OrganizationSuggestions JSON      `json:"organization_suggestions"`
	Timestamp               time.Time `gorm:"column:recorded_at;not null;index" json:"timestamp"`
}

// AppMetrics is a named numeric sample
type AppMetrics struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	MetricName  string    `gorm:"size:100;not null;index" json:"metric_name"`
	MetricValue float64   `gorm:"not null" json:"metric_value"`
	Metadata    JSON      `json:"metadata"`
	Timestamp   time.Time `gorm:"column:recorded_at;not null;index" json:"timestamp"`
}

// TableName overrides the table name for UserActivity
func (UserActivity) TableName() string {
	return "user_activities"
}

// TableName overrides the table name for RoomScan
func (RoomScan) TableName() string {
	return "room_scans"
}

// TableName overrides the table name for AppMetrics
func (AppMetrics) TableName() string {
	return "app_metrics"
}

// All lists every model for migrations and schema inspection
func All() []interface{} {
	return []interface{}{
		&Room{},
		&RoomItem{},
		&OrganizationSuggestion{},
		&Product{},
		&AffiliateClick{},
		&ProductRecommendation{},
		&UserActivity{},
		&RoomScan{},
		&AppMetrics{},
	}
}
