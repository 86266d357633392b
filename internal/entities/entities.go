// Package entities contains main entities of service.
package entities

import (
	"time"
)

// Category is a kind of waste offered for collection.
type Category string

// nolint:golint
const (
	OrganicCategory  Category = "organic"
	PaperCategory    Category = "paper"
	GlassCategory    Category = "glass"
	PlasticCategory  Category = "plastic"
	MetalCategory    Category = "metal"
	SanitaryCategory Category = "sanitary"
	DumpCategory     Category = "dump"
	VariousCategory  Category = "various"
)

// IsValid ...
func (c Category) IsValid() bool {
	switch c {
	case OrganicCategory, PaperCategory, GlassCategory, PlasticCategory,
		MetalCategory, SanitaryCategory, DumpCategory, VariousCategory:
		return true
	}
	return false
}

// Status is a post's lifecycle state.
type Status string

// nolint:golint
const (
	AvailableStatus Status = "available"
	ClaimedStatus   Status = "claimed"
	CollectedStatus Status = "collected"
)

// IsValid ...
func (s Status) IsValid() bool {
	switch s {
	case AvailableStatus, ClaimedStatus, CollectedStatus:
		return true
	}
	return false
}

// Rating is the collector's assessment of the publisher.
type Rating string

// nolint:golint
const (
	PositiveRating Rating = "positive"
	NeutralRating  Rating = "neutral"
	NegativeRating Rating = "negative"
)

// IsValid ...
func (r Rating) IsValid() bool {
	switch r {
	case PositiveRating, NeutralRating, NegativeRating:
		return true
	}
	return false
}

// Post ...
type Post struct {
	UUID            string
	Owner           string
	Title           string
	Description     string
	Category        Category
	ImageURL        string
	Latitude        float64
	Longitude       float64
	Address         string
	Status          Status
	ClaimedBy       *string
	ClaimedAt       *time.Time
	PublisherRating *Rating
	EditCount       uint8
	CreatedAt       time.Time
}

// Profile is a user's public profile with its reputation counters.
type Profile struct {
	ID              string
	Name            string
	Avatar          string
	AccountType     string
	PositiveRatings uint32
	NeutralRatings  uint32
	NegativeRatings uint32
	CreatedAt       time.Time
}
