package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/recolecta/recolecta/internal/entities"
)

const maxLimit = 100
const defaultLimit = 20

// Error ...
type Error struct {
	Error string `json:"error"`
}

// Post ...
type Post struct {
	UUID            string   `json:"uuid"`
	Owner           string   `json:"owner"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	ImageURL        string   `json:"imageUrl,omitempty"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	Address         string   `json:"address,omitempty"`
	Status          string   `json:"status"`
	ClaimedBy       *string  `json:"claimedBy,omitempty"`
	ClaimedAt       *uint64  `json:"claimedAt,omitempty"`
	PublisherRating *string  `json:"publisherRating,omitempty"`
	EditCount       uint8    `json:"editCount"`
	CreatedAt       uint64   `json:"createdAt"`
}

// Profile ...
type Profile struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Avatar          string `json:"avatar,omitempty"`
	AccountType     string `json:"accountType"`
	PositiveRatings uint32 `json:"positiveRatings"`
	NeutralRatings  uint32 `json:"neutralRatings"`
	NegativeRatings uint32 `json:"negativeRatings"`
	RegisteredAt    uint64 `json:"registeredAt"`
}

// ListPostsResponse ...
type ListPostsResponse struct {
	Posts []*Post `json:"posts"`
}

// CreatePostRequest ...
type CreatePostRequest struct {
	UserID      string  `json:"userId"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"imageUrl"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Address     string  `json:"address"`
}

// EditPostRequest ...
type EditPostRequest struct {
	UserID      string  `json:"userId"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"imageUrl"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Address     string  `json:"address"`
}

// ClaimPostRequest ...
type ClaimPostRequest struct {
	UserID string `json:"userId"`
}

// CompleteCollectionRequest ...
type CompleteCollectionRequest struct {
	UserID string `json:"userId"`
	Rating string `json:"rating"`
}

// SetProfileRequest ...
type SetProfileRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Avatar      string `json:"avatar"`
	AccountType string `json:"accountType"`
}

// MessageResponse ...
type MessageResponse struct {
	Message string `json:"message"`
}

// StatsResponse ...
type StatsResponse struct {
	AvailablePosts uint32 `json:"availablePosts"`
	ClaimedPosts   uint32 `json:"claimedPosts"`
	CollectedPosts uint32 `json:"collectedPosts"`
}

func writeOK(w http.ResponseWriter, status int, v interface{}) {
	data, _ := json.Marshal(v)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeOK(w, status, Error{Error: message})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter, message string) {
	logrus.WithContext(ctx).Error(message)
	// the real error is logged only, a user gets a generic message
	writeError(w, http.StatusInternalServerError, "internal error")
}

func toAPIPost(p *entities.Post) *Post {
	if p == nil {
		return nil
	}

	out := Post{
		UUID:        p.UUID,
		Owner:       p.Owner,
		Title:       p.Title,
		Description: p.Description,
		Category:    string(p.Category),
		ImageURL:    p.ImageURL,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		Address:     p.Address,
		Status:      string(p.Status),
		ClaimedBy:   p.ClaimedBy,
		EditCount:   p.EditCount,
		CreatedAt:   uint64(p.CreatedAt.Unix()),
	}

	if p.ClaimedAt != nil {
		v := uint64(p.ClaimedAt.Unix())
		out.ClaimedAt = &v
	}

	if p.PublisherRating != nil {
		v := string(*p.PublisherRating)
		out.PublisherRating = &v
	}

	return &out
}

func toAPIProfile(p *entities.Profile) *Profile {
	if p == nil {
		return nil
	}

	return &Profile{
		ID:              p.ID,
		Name:            p.Name,
		Avatar:          p.Avatar,
		AccountType:     p.AccountType,
		PositiveRatings: p.PositiveRatings,
		NeutralRatings:  p.NeutralRatings,
		NegativeRatings: p.NegativeRatings,
		RegisteredAt:    uint64(p.CreatedAt.Unix()),
	}
}
