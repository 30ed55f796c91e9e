package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSON is a free-form metadata bag persisted as jsonb.
type JSON map[string]interface{}

// NewJSON wraps a plain map as a JSON bag, returning an empty bag for nil.
func NewJSON(m map[string]interface{}) JSON {
	if m == nil {
		return JSON{}
	}
	return JSON(m)
}

// Value implements the driver.Valuer interface.
func (j JSON) Value() (driver.Value, error) {
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface.
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = JSON{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("models: JSON column is not []byte")
	}
	return json.Unmarshal(bytes, j)
}

// MarshalJSON returns the JSON encoding.
func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return json.Marshal(map[string]interface{}(j))
}

// UnmarshalJSON sets the JSON encoding.
func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return errors.New("models: nil pointer")
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*j = m
	return nil
}
