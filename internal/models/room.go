package models

import (
	"time"
)

// Suggestion types produced by the organization rules
const (
	SuggestionStorage      = "storage"
	SuggestionFurniture    = "furniture"
	SuggestionOrganization = "organization"
	SuggestionLighting     = "lighting"
)

// Item and product categories the rules look at. Categories are otherwise free text.
const (
	CategoryStorage   = "storage"
	CategoryFurniture = "furniture"
	CategoryLighting  = "lighting"
)

// Suggestion priorities, lower sorts first
const (
	PriorityHigh   = 1
	PriorityMedium = 2
	PriorityLow    = 3
)

// Room is a scanned space owned by a user
type Room struct {
	ID          uint64                   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string                   `gorm:"size:100;not null" json:"name"`
	UserID      uint64                   `gorm:"not null;index" json:"user_id"`
	Dimensions  JSON                     `json:"dimensions"`
	ScanData    JSON                     `json:"scan_data"`
	Version     uint64                   `gorm:"not null;default:0" json:"version"`
	Items       []RoomItem               `gorm:"constraint:OnDelete:CASCADE;" json:"items"`
	// Suggestions are listed through their own endpoint, never embedded
	Suggestions []OrganizationSuggestion `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// RoomItem is an object detected in a room. Category is free text.
type RoomItem struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomID     uint64    `gorm:"not null;index" json:"room_id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	Category   string    `gorm:"size:50;not null" json:"category"`
	Position   JSON      `json:"position"`
	Confidence float64   `gorm:"not null;default:0" json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}

// OrganizationSuggestion is a rule-derived improvement for a room
type OrganizationSuggestion struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomID         uint64    `gorm:"not null;index" json:"room_id"`
	SuggestionType string    `gorm:"size:50;not null" json:"suggestion_type"`
	Title          string    `gorm:"size:200;not null" json:"title"`
	Description    string    `gorm:"type:text" json:"description"`
	Priority       int       `gorm:"not null;default:1" json:"priority"`
	IsImplemented  bool      `gorm:"not null;default:false" json:"is_implemented"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName overrides the table name for Room
func (Room) TableName() string {
	return "rooms"
}

// TableName overrides the table name for RoomItem
func (RoomItem) TableName() string {
	return "room_items"
}

// TableName overrides the table name for OrganizationSuggestion
func (OrganizationSuggestion) TableName() string {
	return "organization_suggestions"
}
