// Package service contains interface for service business-logic.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/recolecta/recolecta/internal/entities"
	"github.com/recolecta/recolecta/internal/storage"
)

//go:generate mockgen -destination=./mock/service.go -package=mock -source=service.go

// ErrNotFound returned when a requested post or profile doesn't exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyClaimed returned when a claim lost the race for an available post.
var ErrAlreadyClaimed = errors.New("post is no longer available")

// ErrSelfClaim returned when a user tries to claim their own post.
var ErrSelfClaim = errors.New("own post can not be claimed")

// ErrNotClaimedByUser returned when a completion comes from somebody
// other than the claimant.
var ErrNotClaimedByUser = errors.New("post is claimed by another user")

// ErrInvalidState returned when an operation doesn't match the post's
// current lifecycle state.
var ErrInvalidState = errors.New("post is in invalid state for this operation")

// ErrPostNotEditable returned when a post was already edited or left the
// available state.
var ErrPostNotEditable = errors.New("post can not be edited")

// ErrInvalidRating ...
var ErrInvalidRating = errors.New("invalid rating")

// ErrInvalidCategory ...
var ErrInvalidCategory = errors.New("invalid category")

// Service ...
type Service interface {
	CreatePost(ctx context.Context, p *CreatePostParams) (*entities.Post, error)
	GetPost(ctx context.Context, uuid string) (*entities.Post, error)
	ListPosts(ctx context.Context, p *storage.ListPostsParams) ([]*entities.Post, error)
	EditPost(ctx context.Context, uuid, owner string, p *storage.UpdatePostParams) error

	ClaimPost(ctx context.Context, uuid, userID string) error
	CompleteCollection(ctx context.Context, uuid, userID string, rating entities.Rating) error
	ReleaseExpiredClaim(ctx context.Context, uuid, claimedBy string, claimedAt time.Time) error

	SetProfile(ctx context.Context, p *entities.Profile) error
	GetProfile(ctx context.Context, id string) (*entities.Profile, error)

	GetStats(ctx context.Context) (*storage.Stats, error)
}

// CreatePostParams ...
type CreatePostParams struct {
	Owner       string
	Title       string
	Description string
	Category    entities.Category
	ImageURL    string
	Latitude    float64
	Longitude   float64
	Address     string
}
