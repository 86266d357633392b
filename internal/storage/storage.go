// Package storage contains a storage interface.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/recolecta/recolecta/internal/entities"
)

//go:generate mockgen -destination=./mock/storage.go -package=mock -source=storage.go

// ErrNotFound ...
var ErrNotFound = fmt.Errorf("not found")

// ErrConflict is returned by conditional writes when the row's current
// state doesn't match the expected one.
var ErrConflict = fmt.Errorf("conflict")

// Storage provides methods for interacting with database.
type Storage interface {
	CreatePost(ctx context.Context, p *entities.Post) error
	GetPost(ctx context.Context, uuid string) (*entities.Post, error)
	ListPosts(ctx context.Context, p *ListPostsParams) ([]*entities.Post, error)
	UpdatePost(ctx context.Context, uuid, owner string, p *UpdatePostParams) error
	UpdatePostStatus(ctx context.Context, uuid string, p *UpdateStatusParams) error

	SetProfile(ctx context.Context, p *entities.Profile) error
	GetProfile(ctx context.Context, id string) (*entities.Profile, error)
	IncrementRatingCounter(ctx context.Context, profileID string, rating entities.Rating, postUUID string) error

	ListExpiredClaims(ctx context.Context, olderThan time.Time, limit uint16) ([]*ExpiredClaim, error)
	ListPendingRatings(ctx context.Context, limit uint16) ([]*PendingRating, error)

	GetStats(ctx context.Context) (*Stats, error)
}

// OrderType ...
type OrderType string

const (
	// AscendingOrder ...
	AscendingOrder OrderType = "asc"
	// DescendingOrder ...
	DescendingOrder OrderType = "desc"
)

// ListPostsParams ...
type ListPostsParams struct {
	OrderBy  OrderType
	Limit    uint16
	Category *entities.Category
	Status   *entities.Status
	Owner    *string
}

// UpdatePostParams ...
type UpdatePostParams struct {
	Title       string
	Description string
	Category    entities.Category
	ImageURL    string
	Latitude    float64
	Longitude   float64
	Address     string
}

// UpdateStatusParams describes a conditional lifecycle transition. The
// write applies only if the post's current status equals Expected; for
// transitions out of claimed the current claim must match too.
type UpdateStatusParams struct {
	Expected entities.Status
	New      entities.Status

	// ClaimedBy is the claimant to record on available->claimed and the
	// guard value on transitions out of claimed.
	ClaimedBy string
	// ClaimedAt is the claim timestamp to record on available->claimed
	// and the guard value on claimed->available.
	ClaimedAt time.Time
	// Rating is recorded on claimed->collected.
	Rating entities.Rating
}

// ExpiredClaim is a claim which outlived its collection window.
type ExpiredClaim struct {
	PostUUID  string
	ClaimedBy string
	ClaimedAt time.Time
}

// PendingRating is a collected post whose publisher's counter wasn't
// incremented yet.
type PendingRating struct {
	PostUUID string
	Owner    string
	Rating   entities.Rating
}

// Stats ...
type Stats struct {
	AvailablePosts uint32
	ClaimedPosts   uint32
	CollectedPosts uint32
}
