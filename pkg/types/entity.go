package types

import "time"

// TimeLayout — формат дат в ответах API.
const TimeLayout = "2006-01-02 15:04:05"

// BaseEntity — общие поля всех сущностей.
type BaseEntity struct {
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
