// Package types provides type definitions for lost and found reports and
// match results used throughout the matching service.
package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Category classifies a reported item. Values are uppercase to match the
// documents stored by the mobile client exactly.
type Category string

// Known categories.
const (
	CategoryKeys        Category = "KEYS"
	CategoryStudentCard Category = "STUDENT_CARD"
	CategoryPhone       Category = "PHONE"
	CategoryBag         Category = "BAG"
	CategoryDocuments   Category = "DOCUMENTS"
	CategoryElectronics Category = "ELECTRONICS"
	CategoryClothing    Category = "CLOTHING"
	CategoryOther       Category = "OTHER"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryKeys, CategoryStudentCard, CategoryPhone, CategoryBag,
		CategoryDocuments, CategoryElectronics, CategoryClothing, CategoryOther:
		return true
	}
	return false
}

// NormalizeCategory converts any casing of a stored category value to a known
// Category, falling back to OTHER for values the service does not recognize.
func NormalizeCategory(value string) Category {
	c := Category(strings.ToUpper(strings.TrimSpace(value)))
	if c.Valid() {
		return c
	}
	return CategoryOther
}

// Status marks a report as lost or found.
type Status string

// Report statuses.
const (
	StatusLost  Status = "LOST"
	StatusFound Status = "FOUND"
)

// Item is a lost or found report to be compared. Items are read-only inputs
// to the matching engine; scoring never mutates them.
//
// JSON field names match the mobile client's stored documents.
type Item struct {
	ID          string   `json:"id" validate:"required"`
	UserID      string   `json:"userId" validate:"required"`
	UserName    string   `json:"userName"`
	UserEmail   string   `json:"userEmail"`
	Title       string   `json:"title" validate:"required,min=1,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Category    Category `json:"category" validate:"required"`
	Location    string   `json:"location,omitempty"`
	Timestamp   int64    `json:"timestamp" validate:"required"` // milliseconds since epoch
	ImageURLs   []string `json:"imageURLs"`
	Status      Status   `json:"status,omitempty"`
	Resolved    bool     `json:"resolved,omitempty"`
}

// Validate checks the item's shape using the validator and rejects unknown
// categories. Malformed items fail fast at the request boundary, never
// mid-batch.
func (i *Item) Validate() error {
	validate := validator.New()
	if err := validate.Struct(i); err != nil {
		return err
	}
	if !i.Category.Valid() {
		return fmt.Errorf("unknown category %q", i.Category)
	}
	return nil
}

// Time returns the item's timestamp as a UTC time.
func (i *Item) Time() time.Time {
	return time.UnixMilli(i.Timestamp).UTC()
}

// secondsThreshold separates second-resolution timestamps from
// millisecond-resolution ones. Stored documents carry both; values below
// 9,999,999,999 are seconds. The threshold must not change, existing data
// depends on it.
const secondsThreshold = 9_999_999_999

// NormalizeTimestamp converts a raw timestamp from the data source to
// milliseconds since epoch.
func NormalizeTimestamp(raw int64) int64 {
	if raw < secondsThreshold {
		return raw * 1000
	}
	return raw
}
