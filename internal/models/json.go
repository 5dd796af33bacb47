package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// JSON is a wrapper around gorm.io/datatypes.JSON to allow for custom data type mapping.
// Room dimensions, scan payloads, item positions, product features and analytics
// metadata are all stored through it.
type JSON struct {
	datatypes.JSON
}

// NewJSON marshals v into a JSON column value
func NewJSON(v interface{}) (JSON, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return JSON{}, err
	}
	return JSON{datatypes.JSON(b)}, nil
}

// RawJSON wraps an already encoded document, substituting fallback when raw is empty.
// A non-empty raw document must be valid JSON.
func RawJSON(raw json.RawMessage, fallback string) (JSON, error) {
	if len(raw) == 0 {
		if fallback == "" {
			return JSON{}, nil
		}
		raw = json.RawMessage(fallback)
	}
	if !json.Valid(raw) {
		return JSON{}, fmt.Errorf("invalid JSON document")
	}
	return JSON{datatypes.JSON(raw)}, nil
}

// Value promotes the embedded JSON's Value method
func (j JSON) Value() (driver.Value, error) {
	return j.JSON.Value()
}

// Scan validates the stored document before accepting it. NULL scans to an empty value.
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		j.JSON = nil
		return nil
	}
	if err := j.JSON.Scan(value); err != nil {
		return err
	}
	if len(j.JSON) > 0 && !json.Valid(j.JSON) {
		return fmt.Errorf("stored JSON document is malformed: %.40q", string(j.JSON))
	}
	return nil
}

// Decode unmarshals the document into v
func (j JSON) Decode(v interface{}) error {
	if len(j.JSON) == 0 {
		return nil
	}
	return json.Unmarshal(j.JSON, v)
}

// GormDBDataType ensures the correct data type is used for each database driver.
// This resolves the issue where MSSQL does not support the 'json' data type.
func (JSON) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "JSON"
	case "postgres":
		return "JSONB"
	case "sqlserver", "mssql":
		return "NVARCHAR(MAX)"
	case "sqlite":
		return "JSON"
	}
	return "TEXT"
}
