package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/recolecta/recolecta/internal/entities"
	"github.com/recolecta/recolecta/internal/service"
	"github.com/recolecta/recolecta/internal/storage"
)

var errInvalidRequest = errors.New("invalid request")

func (s server) createPost(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /posts Community CreatePost
	//
	// Publish a new post with waste available for collection.
	//
	// ---
	// produces:
	// - application/json
	// parameters:
	// - name: request
	//   in: body
	//   required: true
	//   schema:
	//     "$ref": "#/definitions/CreatePostRequest"
	// responses:
	//   '201':
	//     description: Post
	//     schema:
	//       "$ref": "#/definitions/Post"
	//   '400':
	//     description: bad request
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '404':
	//     description: profile not found
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '500':
	//     description: internal server error
	//     schema:
	//       "$ref": "#/definitions/Error"

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to decode json")
		return
	}

	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	if req.Title == "" || req.Description == "" {
		writeError(w, http.StatusBadRequest, "title and description are required")
		return
	}

	if !entities.Category(req.Category).IsValid() {
		writeError(w, http.StatusBadRequest, "invalid category")
		return
	}

	post, err := s.s.CreatePost(r.Context(), &service.CreatePostParams{
		Owner:       req.UserID,
		Title:       req.Title,
		Description: req.Description,
		Category:    entities.Category(req.Category),
		ImageURL:    req.ImageURL,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Address:     req.Address,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCategory):
			writeError(w, http.StatusBadRequest, "invalid category")
		case errors.Is(err, service.ErrNotFound):
			writeError(w, http.StatusNotFound, "profile not found")
		default:
			writeInternalError(r.Context(), w, fmt.Sprintf("failed to create post: %s", err.Error()))
		}
		return
	}

	writeOK(w, http.StatusCreated, toAPIPost(post))
}

func (s server) listPosts(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /posts Community ListPosts
	//
	// Return posts filtered by category, status and owner.
	//
	// ---
	// produces:
	// - application/json
	// parameters:
	// - name: category
	//   description: filters posts by category
	//   in: query
	//   required: false
	//   type: string
	//   enum: [organic, paper, glass, plastic, metal, sanitary, dump, various]
	// - name: status
	//   description: filters posts by lifecycle status
	//   in: query
	//   required: false
	//   type: string
	//   enum: [available, claimed, collected]
	// - name: owner
	//   description: filters posts by owner
	//   in: query
	//   required: false
	// - name: orderBy
	//   description: sets sort's direction
	//   in: query
	//   required: false
	//   default: desc
	//   type: string
	//   enum: [asc, desc]
	// - name: limit
	//   description: limits count of returned posts
	//   in: query
	//   required: false
	//   default: 20
	//   minimum: 1
	//   maximum: 100
	// responses:
	//   '200':
	//     description: Posts
	//     schema:
	//       "$ref": "#/definitions/ListPostsResponse"
	//   '400':
	//     description: bad request
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '500':
	//     description: internal server error
	//     schema:
	//       "$ref": "#/definitions/Error"

	params, err := extractListParamsFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	posts, err := s.s.ListPosts(r.Context(), params)
	if err != nil {
		writeInternalError(r.Context(), w, fmt.Sprintf("failed to list posts: %s", err.Error()))
		return
	}

	out := ListPostsResponse{
		Posts: make([]*Post, len(posts)),
	}
	for i, v := range posts {
		out.Posts[i] = toAPIPost(v)
	}

	writeOK(w, http.StatusOK, out)
}

func (s server) getPost(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /posts/{uuid} Community GetPost
	//
	// Get post by uuid.
	//
	// ---
	// produces:
	// - application/json
	// parameters:
	// - name: uuid
	//   in: path
	//   required: true
	//   type: string
	// responses:
	//   '200':
	//     description: Post
	//     schema:
	//       "$ref": "#/definitions/Post"
	//   '404':
	//     description: post not found
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '500':
	//     description: internal server error
	//     schema:
	//       "$ref": "#/definitions/Error"

	uuid := chi.URLParam(r, "uuid")
	if uuid == "" {
		writeError(w, http.StatusBadRequest, "invalid uuid")
		return
	}

	post, err := s.s.GetPost(r.Context(), uuid)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, http.StatusNotFound, "post not found")
			return
		}
		writeInternalError(r.Context(), w, fmt.Sprintf("failed to get post: %s", err.Error()))
		return
	}

	writeOK(w, http.StatusOK, toAPIPost(post))
}

func (s server) editPost(w http.ResponseWriter, r *http.Request) {
	// swagger:operation PUT /posts/{uuid} Community EditPost
	//
	// Edit a post. A post may be edited at most once and only while it is
	// still available.
	//
	// ---
	// produces:
	// - application/json
	// parameters:
	// - name: uuid
	//   in: path
	//   required: true
	//   type: string
	// - name: request
	//   in: body
	//   required: true
	//   schema:
	//     "$ref": "#/definitions/EditPostRequest"
	// responses:
	//   '200':
	//     description: edited
	//     schema:
	//       "$ref": "#/definitions/MessageResponse"
	//   '400':
	//     description: bad request
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '404':
	//     description: post not found
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '409':
	//     description: post is not editable anymore
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '500':
	//     description: internal server error
	//     schema:
	//       "$ref": "#/definitions/Error"

	uuid := chi.URLParam(r, "uuid")
	if uuid == "" {
		writeError(w, http.StatusBadRequest, "invalid uuid")
		return
	}

	var req EditPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to decode json")
		return
	}

	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	if !entities.Category(req.Category).IsValid() {
		writeError(w, http.StatusBadRequest, "invalid category")
		return
	}

	if err := s.s.EditPost(r.Context(), uuid, req.UserID, &storage.UpdatePostParams{
		Title:       req.Title,
		Description: req.Description,
		Category:    entities.Category(req.Category),
		ImageURL:    req.ImageURL,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Address:     req.Address,
	}); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCategory):
			writeError(w, http.StatusBadRequest, "invalid category")
		case errors.Is(err, service.ErrNotFound):
			writeError(w, http.StatusNotFound, "post not found")
		case errors.Is(err, service.ErrPostNotEditable):
			writeError(w, http.StatusConflict, "post can not be edited anymore")
		default:
			writeInternalError(r.Context(), w, fmt.Sprintf("failed to edit post: %s", err.Error()))
		}
		return
	}

	writeOK(w, http.StatusOK, MessageResponse{Message: "post edited"})
}

func (s server) claimPost(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /posts/{uuid}/claim Community ClaimPost
	//
	// Claim an available post for collection. The claimant gets a
	// 15-minute window to complete the collection before the post is
	// released automatically.
	//
	// ---
	// produces:
	// - application/json
	// parameters:
	// - name: uuid
	//   in: path
	//   required: true
	//   type: string
	// - name: request
	//   in: body
	//   required: true
	//   schema:
	//     "$ref": "#/definitions/ClaimPostRequest"
	// responses:
	//   '200':
	//     description: claimed
	//     schema:
	//       "$ref": "#/definitions/MessageResponse"
	//   '400':
	//     description: bad request
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '404':
	//     description: post not found or no longer available
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '409':
	//     description: own post can not be claimed
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '500':
	//     description: internal server error
	//     schema:
	//       "$ref": "#/definitions/Error"

	uuid := chi.URLParam(r, "uuid")
	if uuid == "" {
		writeError(w, http.StatusBadRequest, "invalid uuid")
		return
	}

	var req ClaimPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to decode json")
		return
	}

	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	if err := s.s.ClaimPost(r.Context(), uuid, req.UserID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrAlreadyClaimed):
			writeError(w, http.StatusNotFound, "post does not exist or is no longer available")
		case errors.Is(err, service.ErrSelfClaim):
			writeError(w, http.StatusConflict, "own post can not be claimed")
		default:
			writeInternalError(r.Context(), w, fmt.Sprintf("failed to claim post: %s", err.Error()))
		}
		return
	}

	writeOK(w, http.StatusOK, MessageResponse{
		Message: "post claimed successfully, you have 15 minutes to complete the collection",
	})
}

func (s server) completeCollection(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /posts/{uuid}/complete Community CompleteCollection
	//
	// Confirm the collection of a claimed post and rate the publisher.
	// Only the claimant may complete the collection.
	//
	// ---
	// produces:
	// - application/json
	// parameters:
	// - name: uuid
	//   in: path
	//   required: true
	//   type: string
	// - name: request
	//   in: body
	//   required: true
	//   schema:
	//     "$ref": "#/definitions/CompleteCollectionRequest"
	// responses:
	//   '200':
	//     description: collected
	//     schema:
	//       "$ref": "#/definitions/MessageResponse"
	//   '400':
	//     description: bad request
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '403':
	//     description: post is claimed by another user
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '404':
	//     description: post not found
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '409':
	//     description: post is not claimed
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '500':
	//     description: internal server error
	//     schema:
	//       "$ref": "#/definitions/Error"

	uuid := chi.URLParam(r, "uuid")
	if uuid == "" {
		writeError(w, http.StatusBadRequest, "invalid uuid")
		return
	}

	var req CompleteCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to decode json")
		return
	}

	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	if !entities.Rating(req.Rating).IsValid() {
		writeError(w, http.StatusBadRequest, "invalid rating")
		return
	}

	if err := s.s.CompleteCollection(r.Context(), uuid, req.UserID, entities.Rating(req.Rating)); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRating):
			writeError(w, http.StatusBadRequest, "invalid rating")
		case errors.Is(err, service.ErrNotFound):
			writeError(w, http.StatusNotFound, "post not found")
		case errors.Is(err, service.ErrNotClaimedByUser):
			writeError(w, http.StatusForbidden, "post is claimed by another user")
		case errors.Is(err, service.ErrInvalidState):
			writeError(w, http.StatusConflict, "post is not claimed")
		default:
			writeInternalError(r.Context(), w, fmt.Sprintf("failed to complete collection: %s", err.Error()))
		}
		return
	}

	writeOK(w, http.StatusOK, MessageResponse{Message: "collection completed, thank you for recycling"})
}

func (s server) setProfile(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /profiles Profiles SetProfile
	//
	// Create or update a profile.
	//
	// ---
	// produces:
	// - application/json
	// parameters:
	// - name: request
	//   in: body
	//   required: true
	//   schema:
	//     "$ref": "#/definitions/SetProfileRequest"
	// responses:
	//   '200':
	//     description: saved
	//     schema:
	//       "$ref": "#/definitions/MessageResponse"
	//   '400':
	//     description: bad request
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '500':
	//     description: internal server error
	//     schema:
	//       "$ref": "#/definitions/Error"

	var req SetProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to decode json")
		return
	}

	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := s.s.SetProfile(r.Context(), &entities.Profile{
		ID:          req.ID,
		Name:        req.Name,
		Avatar:      req.Avatar,
		AccountType: req.AccountType,
		CreatedAt:   time.Now().UTC(),
	}); err != nil {
		writeInternalError(r.Context(), w, fmt.Sprintf("failed to set profile: %s", err.Error()))
		return
	}

	writeOK(w, http.StatusOK, MessageResponse{Message: "profile saved"})
}

func (s server) getProfile(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /profiles/{id} Profiles GetProfile
	//
	// Get profile with its reputation counters.
	//
	// ---
	// produces:
	// - application/json
	// parameters:
	// - name: id
	//   in: path
	//   required: true
	//   type: string
	// responses:
	//   '200':
	//     description: Profile
	//     schema:
	//       "$ref": "#/definitions/Profile"
	//   '404':
	//     description: profile not found
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '500':
	//     description: internal server error
	//     schema:
	//       "$ref": "#/definitions/Error"

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	profile, err := s.s.GetProfile(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, http.StatusNotFound, "profile not found")
			return
		}
		writeInternalError(r.Context(), w, fmt.Sprintf("failed to get profile: %s", err.Error()))
		return
	}

	writeOK(w, http.StatusOK, toAPIProfile(profile))
}

func (s server) getStats(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /stats Community GetStats
	//
	// Returns posts count by lifecycle status.
	//
	// ---
	// produces:
	// - application/json
	// responses:
	//   '200':
	//     description: Stats
	//     schema:
	//       "$ref": "#/definitions/StatsResponse"
	//   '500':
	//     description: internal server error
	//     schema:
	//       "$ref": "#/definitions/Error"

	stats, err := s.s.GetStats(r.Context())
	if err != nil {
		writeInternalError(r.Context(), w, fmt.Sprintf("failed to get stats: %s", err.Error()))
		return
	}

	writeOK(w, http.StatusOK, StatsResponse{
		AvailablePosts: stats.AvailablePosts,
		ClaimedPosts:   stats.ClaimedPosts,
		CollectedPosts: stats.CollectedPosts,
	})
}

func extractListParamsFromQuery(q url.Values) (*storage.ListPostsParams, error) {
	out := storage.ListPostsParams{
		OrderBy: storage.DescendingOrder,
		Limit:   defaultLimit,
	}

	orderBy := storage.OrderType(q.Get("orderBy"))
	switch orderBy {
	case storage.AscendingOrder, storage.DescendingOrder:
		out.OrderBy = orderBy
	case "":
	default:
		return nil, fmt.Errorf("%w: invalid orderBy", errInvalidRequest)
	}

	if s := q.Get("category"); s != "" {
		c := entities.Category(s)
		if !c.IsValid() {
			return nil, fmt.Errorf("%w: invalid category", errInvalidRequest)
		}
		out.Category = &c
	}

	if s := q.Get("status"); s != "" {
		v := entities.Status(s)
		if !v.IsValid() {
			return nil, fmt.Errorf("%w: invalid status", errInvalidRequest)
		}
		out.Status = &v
	}

	if s := q.Get("owner"); s != "" {
		out.Owner = &s
	}

	if s := q.Get("limit"); s != "" {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to parse limit", errInvalidRequest)
		}

		if v > maxLimit {
			return nil, fmt.Errorf("%w: limit is too big", errInvalidRequest)
		}

		out.Limit = uint16(v)
	}

	return &out, nil
}
