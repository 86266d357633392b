// Package impl is implementation of service interface.
package impl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/recolecta/recolecta/internal/entities"
	"github.com/recolecta/recolecta/internal/service"
	"github.com/recolecta/recolecta/internal/storage"
)

var log = logrus.WithField("layer", "service")

type srv struct {
	s storage.Storage
}

func (s srv) CreatePost(ctx context.Context, p *service.CreatePostParams) (*entities.Post, error) {
	if !p.Category.IsValid() {
		return nil, service.ErrInvalidCategory
	}

	post := entities.Post{
		UUID:        uuid.New().String(),
		Owner:       p.Owner,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		ImageURL:    p.ImageURL,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		Address:     p.Address,
		Status:      entities.AvailableStatus,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.s.CreatePost(ctx, &post); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, service.ErrNotFound
		}

		return nil, fmt.Errorf("failed to create post on storage side: %w", err)
	}

	return &post, nil
}

func (s srv) GetPost(ctx context.Context, uuid string) (*entities.Post, error) {
	p, err := s.s.GetPost(ctx, uuid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, service.ErrNotFound
		}

		return nil, fmt.Errorf("failed to get post from storage: %w", err)
	}

	return p, nil
}

func (s srv) ListPosts(ctx context.Context, p *storage.ListPostsParams) ([]*entities.Post, error) {
	posts, err := s.s.ListPosts(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts on storage side: %w", err)
	}

	return posts, nil
}

// EditPost applies the one-shot edit allowed while a post is still
// available. The guard lives in the conditional update; a miss is mapped
// by re-reading the authoritative record.
func (s srv) EditPost(ctx context.Context, uuid, owner string, p *storage.UpdatePostParams) error {
	if !p.Category.IsValid() {
		return service.ErrInvalidCategory
	}

	err := s.s.UpdatePost(ctx, uuid, owner, p)
	if err == nil {
		return nil
	}

	if !errors.Is(err, storage.ErrConflict) {
		return fmt.Errorf("failed to update post on storage side: %w", err)
	}

	post, err := s.s.GetPost(ctx, uuid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return service.ErrNotFound
		}

		return fmt.Errorf("failed to get post from storage: %w", err)
	}

	if post.Owner != owner {
		return service.ErrNotFound
	}

	return service.ErrPostNotEditable
}

// ClaimPost reserves an available post for the requesting user. Under
// concurrent claims the conditional write guarantees at most one winner
// per availability window.
func (s srv) ClaimPost(ctx context.Context, uuid, userID string) error {
	post, err := s.s.GetPost(ctx, uuid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return service.ErrNotFound
		}

		return fmt.Errorf("failed to get post from storage: %w", err)
	}

	if post.Owner == userID {
		return service.ErrSelfClaim
	}

	if err := s.s.UpdatePostStatus(ctx, uuid, &storage.UpdateStatusParams{
		Expected:  entities.AvailableStatus,
		New:       entities.ClaimedStatus,
		ClaimedBy: userID,
		ClaimedAt: time.Now().UTC(),
	}); err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			return service.ErrAlreadyClaimed
		case errors.Is(err, storage.ErrNotFound):
			return service.ErrNotFound
		}

		return fmt.Errorf("failed to claim post on storage side: %w", err)
	}

	return nil
}

// CompleteCollection marks a claimed post as collected and credits the
// publisher's reputation. The counter increment is applied at-least-once:
// a failure here leaves the post collected and the worker retries the
// increment, deduplicated by the post id.
func (s srv) CompleteCollection(ctx context.Context, uuid, userID string, rating entities.Rating) error {
	if !rating.IsValid() {
		return service.ErrInvalidRating
	}

	post, err := s.s.GetPost(ctx, uuid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return service.ErrNotFound
		}

		return fmt.Errorf("failed to get post from storage: %w", err)
	}

	if post.Status != entities.ClaimedStatus {
		return service.ErrInvalidState
	}

	if post.ClaimedBy == nil || *post.ClaimedBy != userID {
		return service.ErrNotClaimedByUser
	}

	if err := s.s.UpdatePostStatus(ctx, uuid, &storage.UpdateStatusParams{
		Expected:  entities.ClaimedStatus,
		New:       entities.CollectedStatus,
		ClaimedBy: userID,
		Rating:    rating,
	}); err != nil {
		// the claim expired or changed hands between the read and the write
		if errors.Is(err, storage.ErrConflict) {
			return service.ErrInvalidState
		}

		return fmt.Errorf("failed to collect post on storage side: %w", err)
	}

	if err := s.s.IncrementRatingCounter(ctx, post.Owner, rating, uuid); err != nil {
		log.WithError(err).WithField("post", uuid).Error("failed to increment rating counter, leaving for reconciliation")
	}

	return nil
}

// ReleaseExpiredClaim reverts a claim which outlived its collection
// window. A conflict means the post was collected or re-claimed in the
// meantime, which makes the reversion a no-op rather than an error.
func (s srv) ReleaseExpiredClaim(ctx context.Context, uuid, claimedBy string, claimedAt time.Time) error {
	if err := s.s.UpdatePostStatus(ctx, uuid, &storage.UpdateStatusParams{
		Expected:  entities.ClaimedStatus,
		New:       entities.AvailableStatus,
		ClaimedBy: claimedBy,
		ClaimedAt: claimedAt,
	}); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil
		}

		return fmt.Errorf("failed to release post on storage side: %w", err)
	}

	log.WithField("post", uuid).Info("claim expired, post released")

	return nil
}

func (s srv) SetProfile(ctx context.Context, p *entities.Profile) error {
	if err := s.s.SetProfile(ctx, p); err != nil {
		return fmt.Errorf("failed to set profile on storage side: %w", err)
	}

	return nil
}

func (s srv) GetProfile(ctx context.Context, id string) (*entities.Profile, error) {
	p, err := s.s.GetProfile(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, service.ErrNotFound
		}

		return nil, fmt.Errorf("failed to get profile from storage: %w", err)
	}

	return p, nil
}

func (s srv) GetStats(ctx context.Context) (*storage.Stats, error) {
	stats, err := s.s.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats from storage: %w", err)
	}

	return stats, nil
}

// New creates new instance of service.
func New(s storage.Storage) service.Service {
	return srv{
		s: s,
	}
}
