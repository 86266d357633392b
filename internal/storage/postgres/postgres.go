// Package postgres is implementation of storage interface.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/recolecta/recolecta/internal/entities"
	"github.com/recolecta/recolecta/internal/storage"
)

const foreignKeyViolation = "23503"

type pg struct {
	ext sqlx.ExtContext
}

type postDTO struct {
	UUID            string     `db:"uuid"`
	Owner           string     `db:"owner"`
	Title           string     `db:"title"`
	Description     string     `db:"description"`
	Category        string     `db:"category"`
	ImageURL        string     `db:"image_url"`
	Latitude        float64    `db:"latitude"`
	Longitude       float64    `db:"longitude"`
	Address         string     `db:"address"`
	Status          string     `db:"status"`
	ClaimedBy       *string    `db:"claimed_by"`
	ClaimedAt       *time.Time `db:"claimed_at"`
	PublisherRating *string    `db:"publisher_rating"`
	EditCount       uint8      `db:"edit_count"`
	CreatedAt       time.Time  `db:"created_at"`
}

type profileDTO struct {
	ID              string    `db:"id"`
	Name            string    `db:"name"`
	Avatar          string    `db:"avatar"`
	AccountType     string    `db:"account_type"`
	PositiveRatings uint32    `db:"positive_ratings"`
	NeutralRatings  uint32    `db:"neutral_ratings"`
	NegativeRatings uint32    `db:"negative_ratings"`
	CreatedAt       time.Time `db:"created_at"`
}

func (s pg) CreatePost(ctx context.Context, p *entities.Post) error {
	post := postDTO{
		UUID:        p.UUID,
		Owner:       p.Owner,
		Title:       p.Title,
		Description: p.Description,
		Category:    string(p.Category),
		ImageURL:    p.ImageURL,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		Address:     p.Address,
		Status:      string(entities.AvailableStatus),
		CreatedAt:   p.CreatedAt.UTC(),
	}

	if _, err := sqlx.NamedExecContext(ctx, s.ext,
		`
			INSERT INTO post(uuid, owner, title, description, category, image_url, latitude, longitude, address, status, created_at)
			VALUES(:uuid, :owner, :title, :description, :category, :image_url, :latitude, :longitude, :address, :status, :created_at)
		`, post,
	); err != nil {
		if err, ok := err.(*pq.Error); ok && err.Code == foreignKeyViolation {
			return storage.ErrNotFound
		}

		return fmt.Errorf("failed to exec: %w", err)
	}

	return nil
}

func (s pg) GetPost(ctx context.Context, uuid string) (*entities.Post, error) {
	var p postDTO

	if err := sqlx.GetContext(ctx, s.ext, &p, `
			SELECT uuid, owner, title, description, category, image_url, latitude, longitude, address,
				status, claimed_by, claimed_at, publisher_rating, edit_count, created_at
			FROM post
			WHERE uuid = $1
		`,
		uuid,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}

		return nil, fmt.Errorf("failed to query: %w", err)
	}

	return toPost(&p), nil
}

func (s pg) ListPosts(ctx context.Context, params *storage.ListPostsParams) ([]*entities.Post, error) {
	where := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)

	if params.Category != nil {
		args = append(args, string(*params.Category))
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}

	if params.Status != nil {
		args = append(args, string(*params.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	if params.Owner != nil {
		args = append(args, *params.Owner)
		where = append(where, fmt.Sprintf("owner = $%d", len(args)))
	}

	q := strings.Builder{}
	q.WriteString(`
		SELECT uuid, owner, title, description, category, image_url, latitude, longitude, address,
			status, claimed_by, claimed_at, publisher_rating, edit_count, created_at
		FROM post
	`)

	if len(where) > 0 {
		q.WriteString(" WHERE ")
		q.WriteString(strings.Join(where, " AND "))
	}

	order := "DESC"
	if params.OrderBy == storage.AscendingOrder {
		order = "ASC"
	}

	args = append(args, params.Limit)
	q.WriteString(fmt.Sprintf(" ORDER BY created_at %s LIMIT $%d", order, len(args)))

	var pp []*postDTO
	if err := sqlx.SelectContext(ctx, s.ext, &pp, q.String(), args...); err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	out := make([]*entities.Post, len(pp))
	for i, v := range pp {
		out[i] = toPost(v)
	}

	return out, nil
}

func (s pg) UpdatePost(ctx context.Context, uuid, owner string, p *storage.UpdatePostParams) error {
	res, err := s.ext.ExecContext(ctx,
		`
			UPDATE post
			SET title=$3, description=$4, category=$5, image_url=$6, latitude=$7, longitude=$8, address=$9,
				edit_count = edit_count + 1
			WHERE uuid=$1 AND owner=$2 AND status='available' AND edit_count < 1
		`,
		uuid, owner, p.Title, p.Description, string(p.Category), p.ImageURL, p.Latitude, p.Longitude, p.Address,
	)
	if err != nil {
		return fmt.Errorf("failed to exec: %w", err)
	}

	if c, _ := res.RowsAffected(); c == 0 {
		return storage.ErrConflict
	}

	return nil
}

// UpdatePostStatus is the conditional-write primitive behind every
// lifecycle transition. The affected-row count distinguishes a won
// compare-and-set from a lost one.
func (s pg) UpdatePostStatus(ctx context.Context, uuid string, p *storage.UpdateStatusParams) error {
	var (
		res sql.Result
		err error
	)

	switch {
	case p.Expected == entities.AvailableStatus && p.New == entities.ClaimedStatus:
		res, err = s.ext.ExecContext(ctx,
			`UPDATE post SET status='claimed', claimed_by=$2, claimed_at=$3 WHERE uuid=$1 AND status='available'`,
			uuid, p.ClaimedBy, p.ClaimedAt.UTC(),
		)

	case p.Expected == entities.ClaimedStatus && p.New == entities.CollectedStatus:
		res, err = s.ext.ExecContext(ctx,
			`UPDATE post SET status='collected', publisher_rating=$3 WHERE uuid=$1 AND status='claimed' AND claimed_by=$2`,
			uuid, p.ClaimedBy, string(p.Rating),
		)

	case p.Expected == entities.ClaimedStatus && p.New == entities.AvailableStatus:
		res, err = s.ext.ExecContext(ctx,
			`
				UPDATE post SET status='available', claimed_by=NULL, claimed_at=NULL
				WHERE uuid=$1 AND status='claimed' AND claimed_by=$2 AND claimed_at=$3
			`,
			uuid, p.ClaimedBy, p.ClaimedAt.UTC(),
		)

	default:
		return fmt.Errorf("unsupported transition %s->%s", p.Expected, p.New)
	}

	if err != nil {
		if err, ok := err.(*pq.Error); ok && err.Code == foreignKeyViolation {
			return storage.ErrNotFound
		}

		return fmt.Errorf("failed to exec: %w", err)
	}

	if c, _ := res.RowsAffected(); c == 0 {
		return storage.ErrConflict
	}

	return nil
}

func (s pg) SetProfile(ctx context.Context, p *entities.Profile) error {
	profile := profileDTO{
		ID:          p.ID,
		Name:        p.Name,
		Avatar:      p.Avatar,
		AccountType: p.AccountType,
		CreatedAt:   p.CreatedAt.UTC(),
	}

	if _, err := sqlx.NamedExecContext(ctx, s.ext,
		`
			INSERT INTO profile(id, name, avatar, account_type, created_at)
			VALUES(:id, :name, :avatar, :account_type, :created_at)
			ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, avatar=excluded.avatar, account_type=excluded.account_type
		`, profile,
	); err != nil {
		return fmt.Errorf("failed to exec: %w", err)
	}

	return nil
}

func (s pg) GetProfile(ctx context.Context, id string) (*entities.Profile, error) {
	var p profileDTO

	if err := sqlx.GetContext(ctx, s.ext, &p, `
			SELECT id, name, avatar, account_type, positive_ratings, neutral_ratings, negative_ratings, created_at
			FROM profile
			WHERE id = $1
		`,
		id,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}

		return nil, fmt.Errorf("failed to query: %w", err)
	}

	return &entities.Profile{
		ID:              p.ID,
		Name:            p.Name,
		Avatar:          p.Avatar,
		AccountType:     p.AccountType,
		PositiveRatings: p.PositiveRatings,
		NeutralRatings:  p.NeutralRatings,
		NegativeRatings: p.NegativeRatings,
		CreatedAt:       p.CreatedAt,
	}, nil
}

// IncrementRatingCounter bumps the profile's counter by exactly one with
// a single atomic statement. The rating_event row keyed by the post uuid
// makes retries idempotent: a second call for the same post is a no-op.
func (s pg) IncrementRatingCounter(ctx context.Context, profileID string, rating entities.Rating, postUUID string) error {
	var column string
	switch rating {
	case entities.PositiveRating:
		column = "positive_ratings"
	case entities.NeutralRating:
		column = "neutral_ratings"
	case entities.NegativeRating:
		column = "negative_ratings"
	default:
		return fmt.Errorf("invalid rating %q", rating)
	}

	if _, err := s.ext.ExecContext(ctx, fmt.Sprintf(`
			WITH applied AS (
				INSERT INTO rating_event(post_uuid, profile_id, rating)
				VALUES($1, $2, $3)
				ON CONFLICT(post_uuid) DO NOTHING
				RETURNING 1
			)
			UPDATE profile SET %s = %s + 1
			WHERE id = $2 AND EXISTS (SELECT 1 FROM applied)
		`, column, column),
		postUUID, profileID, string(rating),
	); err != nil {
		if err, ok := err.(*pq.Error); ok && err.Code == foreignKeyViolation {
			return storage.ErrNotFound
		}

		return fmt.Errorf("failed to exec: %w", err)
	}

	return nil
}

func (s pg) ListExpiredClaims(ctx context.Context, olderThan time.Time, limit uint16) ([]*storage.ExpiredClaim, error) {
	var cc []*struct {
		PostUUID  string    `db:"uuid"`
		ClaimedBy string    `db:"claimed_by"`
		ClaimedAt time.Time `db:"claimed_at"`
	}

	if err := sqlx.SelectContext(ctx, s.ext, &cc, `
			SELECT uuid, claimed_by, claimed_at FROM post
			WHERE status='claimed' AND claimed_at <= $1
			ORDER BY claimed_at
			LIMIT $2
		`,
		olderThan.UTC(), limit,
	); err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	out := make([]*storage.ExpiredClaim, len(cc))
	for i, v := range cc {
		out[i] = &storage.ExpiredClaim{
			PostUUID:  v.PostUUID,
			ClaimedBy: v.ClaimedBy,
			ClaimedAt: v.ClaimedAt,
		}
	}

	return out, nil
}

func (s pg) ListPendingRatings(ctx context.Context, limit uint16) ([]*storage.PendingRating, error) {
	var rr []*struct {
		PostUUID string `db:"uuid"`
		Owner    string `db:"owner"`
		Rating   string `db:"publisher_rating"`
	}

	if err := sqlx.SelectContext(ctx, s.ext, &rr, `
			SELECT uuid, owner, publisher_rating FROM post p
			WHERE status='collected' AND publisher_rating IS NOT NULL
				AND NOT EXISTS (SELECT 1 FROM rating_event e WHERE e.post_uuid = p.uuid)
			ORDER BY created_at
			LIMIT $1
		`,
		limit,
	); err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	out := make([]*storage.PendingRating, len(rr))
	for i, v := range rr {
		out[i] = &storage.PendingRating{
			PostUUID: v.PostUUID,
			Owner:    v.Owner,
			Rating:   entities.Rating(v.Rating),
		}
	}

	return out, nil
}

func (s pg) GetStats(ctx context.Context) (*storage.Stats, error) {
	var ss []*struct {
		Status string `db:"status"`
		Count  uint32 `db:"count"`
	}

	if err := sqlx.SelectContext(ctx, s.ext, &ss, `SELECT status, COUNT(*) AS count FROM post GROUP BY status`); err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	out := storage.Stats{}
	for _, v := range ss {
		switch entities.Status(v.Status) {
		case entities.AvailableStatus:
			out.AvailablePosts = v.Count
		case entities.ClaimedStatus:
			out.ClaimedPosts = v.Count
		case entities.CollectedStatus:
			out.CollectedPosts = v.Count
		}
	}

	return &out, nil
}

// New creates new instance of pg.
func New(db *sql.DB) storage.Storage {
	return pg{
		ext: sqlx.NewDb(db, "postgres"),
	}
}

func toPost(p *postDTO) *entities.Post {
	out := entities.Post{
		UUID:        p.UUID,
		Owner:       p.Owner,
		Title:       p.Title,
		Description: p.Description,
		Category:    entities.Category(p.Category),
		ImageURL:    p.ImageURL,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		Address:     p.Address,
		Status:      entities.Status(p.Status),
		ClaimedBy:   p.ClaimedBy,
		ClaimedAt:   p.ClaimedAt,
		EditCount:   p.EditCount,
		CreatedAt:   p.CreatedAt,
	}

	if p.PublisherRating != nil {
		r := entities.Rating(*p.PublisherRating)
		out.PublisherRating = &r
	}

	return &out
}
