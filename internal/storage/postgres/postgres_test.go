//+build integration

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	m "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/recolecta/recolecta/internal/entities"
	"github.com/recolecta/recolecta/internal/storage"
)

var (
	db  *sql.DB
	ctx = context.Background()
	s   storage.Storage
)

func TestMain(m *testing.M) {
	shutdown := setup()

	s = New(db)

	code := m.Run()
	shutdown()
	os.Exit(code)
}

func setup() func() {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:12",
		Env:          map[string]string{"POSTGRES_PASSWORD": "root"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp"),
	}
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
	})
	if err != nil {
		logrus.WithError(err).Fatalf("failed to create container")
	}

	if err := c.Start(ctx); err != nil {
		logrus.WithError(err).Fatal("failed to start container")
	}

	host, err := c.Host(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("failed to get host")
	}

	port, err := c.MappedPort(ctx, "5432")
	if err != nil {
		logrus.WithError(err).Fatal("failed to map port")
	}

	dsn := fmt.Sprintf("host=%s port=%d user=postgres password=root sslmode=disable", host, port.Int())

	db, err = sql.Open("postgres", dsn)
	if err != nil {
		logrus.WithError(err).Fatal("failed to open connection")
	}

	if err := db.Ping(); err != nil {
		logrus.WithError(err).Fatal("failed to ping postgres")
	}

	shutdownFn := func() {
		if c != nil {
			c.Terminate(ctx)
		}
	}

	migrate("postgres", "root", host, "postgres", port.Int())

	return shutdownFn
}

func migrate(username, password, hostname, dbname string, port int) {
	_, currFile, _, ok := runtime.Caller(0)
	if !ok {
		logrus.Fatal("failed to get current file location")
	}

	migrations := filepath.Join(currFile, "../../../../scripts/migrations/postgres/")

	migrator, err := m.New(
		fmt.Sprintf("file://%s", migrations),
		fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
			username, password, hostname, port, dbname),
	)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create migrator")
	}
	defer migrator.Close()

	if err := migrator.Up(); err != nil {
		logrus.WithError(err).Fatal("failed to migrate")
	}
}

func cleanup(t *testing.T) {
	_, err := db.ExecContext(ctx, `DELETE FROM rating_event`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `DELETE FROM post`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `DELETE FROM profile`)
	require.NoError(t, err)
}

func createProfile(t *testing.T, id string) {
	require.NoError(t, s.SetProfile(ctx, &entities.Profile{
		ID:          id,
		Name:        id,
		AccountType: "individual",
		CreatedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}))
}

func createPost(t *testing.T, uuid, owner string, category entities.Category, createdAt time.Time) {
	require.NoError(t, s.CreatePost(ctx, &entities.Post{
		UUID:        uuid,
		Owner:       owner,
		Title:       "title " + uuid,
		Description: "description " + uuid,
		Category:    category,
		CreatedAt:   createdAt,
	}))
}

func claimPost(t *testing.T, uuid, claimedBy string, claimedAt time.Time) {
	require.NoError(t, s.UpdatePostStatus(ctx, uuid, &storage.UpdateStatusParams{
		Expected:  entities.AvailableStatus,
		New:       entities.ClaimedStatus,
		ClaimedBy: claimedBy,
		ClaimedAt: claimedAt,
	}))
}

func TestPg_CreatePost(t *testing.T) {
	defer cleanup(t)

	createProfile(t, "owner")

	createdAt := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.CreatePost(ctx, &entities.Post{
		UUID:        "1234",
		Owner:       "owner",
		Title:       "old bottles",
		Description: "a bag of glass bottles",
		Category:    entities.GlassCategory,
		ImageURL:    "http://example.com/1.jpg",
		Latitude:    1.5,
		Longitude:   2.5,
		Address:     "somewhere",
		CreatedAt:   createdAt,
	}))

	p, err := s.GetPost(ctx, "1234")
	require.NoError(t, err)

	assert.Equal(t, "1234", p.UUID)
	assert.Equal(t, "owner", p.Owner)
	assert.Equal(t, "old bottles", p.Title)
	assert.Equal(t, "a bag of glass bottles", p.Description)
	assert.Equal(t, entities.GlassCategory, p.Category)
	assert.Equal(t, "http://example.com/1.jpg", p.ImageURL)
	assert.Equal(t, 1.5, p.Latitude)
	assert.Equal(t, 2.5, p.Longitude)
	assert.Equal(t, "somewhere", p.Address)
	assert.Equal(t, entities.AvailableStatus, p.Status)
	assert.Nil(t, p.ClaimedBy)
	assert.Nil(t, p.ClaimedAt)
	assert.Nil(t, p.PublisherRating)
	assert.EqualValues(t, 0, p.EditCount)
	assert.Equal(t, createdAt, p.CreatedAt.UTC())
}

func TestPg_CreatePost_UnknownOwner(t *testing.T) {
	defer cleanup(t)

	err := s.CreatePost(ctx, &entities.Post{
		UUID:      "1234",
		Owner:     "ghost",
		Title:     "title",
		Category:  entities.PaperCategory,
		CreatedAt: time.Now(),
	})
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestPg_GetPost_NotFound(t *testing.T) {
	defer cleanup(t)

	_, err := s.GetPost(ctx, "1234")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestPg_ListPosts(t *testing.T) {
	defer cleanup(t)

	createProfile(t, "owner")
	createProfile(t, "other")

	base := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	createPost(t, "1", "owner", entities.GlassCategory, base)
	createPost(t, "2", "owner", entities.PaperCategory, base.Add(time.Minute))
	createPost(t, "3", "other", entities.GlassCategory, base.Add(2*time.Minute))

	claimPost(t, "2", "other", base.Add(time.Hour))

	t.Run("all_desc", func(t *testing.T) {
		pp, err := s.ListPosts(ctx, &storage.ListPostsParams{OrderBy: storage.DescendingOrder, Limit: 10})
		require.NoError(t, err)
		require.Len(t, pp, 3)
		assert.Equal(t, "3", pp[0].UUID)
		assert.Equal(t, "2", pp[1].UUID)
		assert.Equal(t, "1", pp[2].UUID)
	})

	t.Run("all_asc", func(t *testing.T) {
		pp, err := s.ListPosts(ctx, &storage.ListPostsParams{OrderBy: storage.AscendingOrder, Limit: 10})
		require.NoError(t, err)
		require.Len(t, pp, 3)
		assert.Equal(t, "1", pp[0].UUID)
	})

	t.Run("limit", func(t *testing.T) {
		pp, err := s.ListPosts(ctx, &storage.ListPostsParams{OrderBy: storage.DescendingOrder, Limit: 1})
		require.NoError(t, err)
		require.Len(t, pp, 1)
		assert.Equal(t, "3", pp[0].UUID)
	})

	t.Run("by_category", func(t *testing.T) {
		c := entities.GlassCategory
		pp, err := s.ListPosts(ctx, &storage.ListPostsParams{OrderBy: storage.AscendingOrder, Limit: 10, Category: &c})
		require.NoError(t, err)
		require.Len(t, pp, 2)
		assert.Equal(t, "1", pp[0].UUID)
		assert.Equal(t, "3", pp[1].UUID)
	})

	t.Run("by_status", func(t *testing.T) {
		v := entities.ClaimedStatus
		pp, err := s.ListPosts(ctx, &storage.ListPostsParams{OrderBy: storage.AscendingOrder, Limit: 10, Status: &v})
		require.NoError(t, err)
		require.Len(t, pp, 1)
		assert.Equal(t, "2", pp[0].UUID)
	})

	t.Run("by_owner", func(t *testing.T) {
		owner := "other"
		pp, err := s.ListPosts(ctx, &storage.ListPostsParams{OrderBy: storage.AscendingOrder, Limit: 10, Owner: &owner})
		require.NoError(t, err)
		require.Len(t, pp, 1)
		assert.Equal(t, "3", pp[0].UUID)
	})

	t.Run("combined", func(t *testing.T) {
		c := entities.GlassCategory
		v := entities.AvailableStatus
		owner := "owner"
		pp, err := s.ListPosts(ctx, &storage.ListPostsParams{
			OrderBy: storage.AscendingOrder, Limit: 10,
			Category: &c, Status: &v, Owner: &owner,
		})
		require.NoError(t, err)
		require.Len(t, pp, 1)
		assert.Equal(t, "1", pp[0].UUID)
	})
}

func TestPg_UpdatePost(t *testing.T) {
	defer cleanup(t)

	createProfile(t, "owner")
	createPost(t, "1234", "owner", entities.GlassCategory, time.Now())

	require.NoError(t, s.UpdatePost(ctx, "1234", "owner", &storage.UpdatePostParams{
		Title:       "new title",
		Description: "new description",
		Category:    entities.PlasticCategory,
		ImageURL:    "http://example.com/2.jpg",
		Latitude:    3,
		Longitude:   4,
		Address:     "elsewhere",
	}))

	p, err := s.GetPost(ctx, "1234")
	require.NoError(t, err)
	assert.Equal(t, "new title", p.Title)
	assert.Equal(t, "new description", p.Description)
	assert.Equal(t, entities.PlasticCategory, p.Category)
	assert.EqualValues(t, 1, p.EditCount)

	// a post may be edited only once
	err = s.UpdatePost(ctx, "1234", "owner", &storage.UpdatePostParams{Title: "another title", Category: entities.PlasticCategory})
	assert.True(t, errors.Is(err, storage.ErrConflict))
}

func TestPg_UpdatePost_Conflicts(t *testing.T) {
	defer cleanup(t)

	createProfile(t, "owner")
	createProfile(t, "collector")
	createPost(t, "available", "owner", entities.GlassCategory, time.Now())
	createPost(t, "claimed", "owner", entities.GlassCategory, time.Now())
	claimPost(t, "claimed", "collector", time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC))

	p := &storage.UpdatePostParams{Title: "new title", Category: entities.GlassCategory}

	assert.True(t, errors.Is(s.UpdatePost(ctx, "missing", "owner", p), storage.ErrConflict))
	assert.True(t, errors.Is(s.UpdatePost(ctx, "available", "collector", p), storage.ErrConflict))
	assert.True(t, errors.Is(s.UpdatePost(ctx, "claimed", "owner", p), storage.ErrConflict))
}

func TestPg_UpdatePostStatus_Claim(t *testing.T) {
	defer cleanup(t)

	createProfile(t, "owner")
	createProfile(t, "collector")
	createPost(t, "1234", "owner", entities.GlassCategory, time.Now())

	claimedAt := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	claimPost(t, "1234", "collector", claimedAt)

	p, err := s.GetPost(ctx, "1234")
	require.NoError(t, err)
	assert.Equal(t, entities.ClaimedStatus, p.Status)
	require.NotNil(t, p.ClaimedBy)
	assert.Equal(t, "collector", *p.ClaimedBy)
	require.NotNil(t, p.ClaimedAt)
	assert.Equal(t, claimedAt, p.ClaimedAt.UTC())

	// the second claim loses
	err = s.UpdatePostStatus(ctx, "1234", &storage.UpdateStatusParams{
		Expected:  entities.AvailableStatus,
		New:       entities.ClaimedStatus,
		ClaimedBy: "collector",
		ClaimedAt: claimedAt,
	})
	assert.True(t, errors.Is(err, storage.ErrConflict))
}

func TestPg_UpdatePostStatus_ConcurrentClaims(t *testing.T) {
	defer cleanup(t)

	const claimants = 16

	createProfile(t, "owner")
	for i := 0; i < claimants; i++ {
		createProfile(t, fmt.Sprintf("collector-%d", i))
	}
	createPost(t, "1234", "owner", entities.GlassCategory, time.Now())

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		won  int
		lost int
	)

	for i := 0; i < claimants; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			err := s.UpdatePostStatus(ctx, "1234", &storage.UpdateStatusParams{
				Expected:  entities.AvailableStatus,
				New:       entities.ClaimedStatus,
				ClaimedBy: fmt.Sprintf("collector-%d", i),
				ClaimedAt: time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC),
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				won++
			case errors.Is(err, storage.ErrConflict):
				lost++
			default:
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, won)
	assert.Equal(t, claimants-1, lost)
}

func TestPg_UpdatePostStatus_Collect(t *testing.T) {
	defer cleanup(t)

	createProfile(t, "owner")
	createProfile(t, "collector")
	createPost(t, "1234", "owner", entities.GlassCategory, time.Now())
	claimPost(t, "1234", "collector", time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC))

	// another claimant can not collect
	err := s.UpdatePostStatus(ctx, "1234", &storage.UpdateStatusParams{
		Expected:  entities.ClaimedStatus,
		New:       entities.CollectedStatus,
		ClaimedBy: "somebody",
		Rating:    entities.PositiveRating,
	})
	assert.True(t, errors.Is(err, storage.ErrConflict))

	require.NoError(t, s.UpdatePostStatus(ctx, "1234", &storage.UpdateStatusParams{
		Expected:  entities.ClaimedStatus,
		New:       entities.CollectedStatus,
		ClaimedBy: "collector",
		Rating:    entities.PositiveRating,
	}))

	p, err := s.GetPost(ctx, "1234")
	require.NoError(t, err)
	assert.Equal(t, entities.CollectedStatus, p.Status)
	require.NotNil(t, p.PublisherRating)
	assert.Equal(t, entities.PositiveRating, *p.PublisherRating)

	// collected is terminal
	err = s.UpdatePostStatus(ctx, "1234", &storage.UpdateStatusParams{
		Expected:  entities.ClaimedStatus,
		New:       entities.CollectedStatus,
		ClaimedBy: "collector",
		Rating:    entities.PositiveRating,
	})
	assert.True(t, errors.Is(err, storage.ErrConflict))
}

func TestPg_UpdatePostStatus_Release(t *testing.T) {
	defer cleanup(t)

	createProfile(t, "owner")
	createProfile(t, "collector")
	createPost(t, "1234", "owner", entities.GlassCategory, time.Now())

	claimedAt := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	claimPost(t, "1234", "collector", claimedAt)

	// a stale release guards on the original claim timestamp
	err := s.UpdatePostStatus(ctx, "1234", &storage.UpdateStatusParams{
		Expected:  entities.ClaimedStatus,
		New:       entities.AvailableStatus,
		ClaimedBy: "collector",
		ClaimedAt: claimedAt.Add(-time.Hour),
	})
	assert.True(t, errors.Is(err, storage.ErrConflict))

	require.NoError(t, s.UpdatePostStatus(ctx, "1234", &storage.UpdateStatusParams{
		Expected:  entities.ClaimedStatus,
		New:       entities.AvailableStatus,
		ClaimedBy: "collector",
		ClaimedAt: claimedAt,
	}))

	p, err := s.GetPost(ctx, "1234")
	require.NoError(t, err)
	assert.Equal(t, entities.AvailableStatus, p.Status)
	assert.Nil(t, p.ClaimedBy)
	assert.Nil(t, p.ClaimedAt)

	// the released post can be claimed again
	claimPost(t, "1234", "collector", claimedAt.Add(time.Hour))
}

func TestPg_UpdatePostStatus_UnsupportedTransition(t *testing.T) {
	defer cleanup(t)

	err := s.UpdatePostStatus(ctx, "1234", &storage.UpdateStatusParams{
		Expected: entities.CollectedStatus,
		New:      entities.AvailableStatus,
	})
	assert.Error(t, err)
}

func TestPg_SetProfile(t *testing.T) {
	defer cleanup(t)

	createdAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.SetProfile(ctx, &entities.Profile{
		ID:          "user",
		Name:        "John",
		Avatar:      "http://example.com/avatar.jpg",
		AccountType: "individual",
		CreatedAt:   createdAt,
	}))

	p, err := s.GetProfile(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, "John", p.Name)
	assert.Equal(t, "http://example.com/avatar.jpg", p.Avatar)
	assert.Equal(t, "individual", p.AccountType)
	assert.EqualValues(t, 0, p.PositiveRatings)
	assert.Equal(t, createdAt, p.CreatedAt.UTC())

	// the upsert keeps the counters and the registration date
	createProfile(t, "rater")
	createPost(t, "1234", "user", entities.GlassCategory, time.Now())
	require.NoError(t, s.IncrementRatingCounter(ctx, "user", entities.PositiveRating, "1234"))

	require.NoError(t, s.SetProfile(ctx, &entities.Profile{
		ID:          "user",
		Name:        "Johnny",
		AccountType: "organization",
		CreatedAt:   time.Now(),
	}))

	p, err = s.GetProfile(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, "Johnny", p.Name)
	assert.Equal(t, "organization", p.AccountType)
	assert.EqualValues(t, 1, p.PositiveRatings)
	assert.Equal(t, createdAt, p.CreatedAt.UTC())
}

func TestPg_GetProfile_NotFound(t *testing.T) {
	defer cleanup(t)

	_, err := s.GetProfile(ctx, "user")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestPg_IncrementRatingCounter(t *testing.T) {
	defer cleanup(t)

	createProfile(t, "owner")
	createPost(t, "1", "owner", entities.GlassCategory, time.Now())
	createPost(t, "2", "owner", entities.GlassCategory, time.Now())

	require.NoError(t, s.IncrementRatingCounter(ctx, "owner", entities.PositiveRating, "1"))
	require.NoError(t, s.IncrementRatingCounter(ctx, "owner", entities.NegativeRating, "2"))

	p, err := s.GetProfile(ctx, "owner")
	require.NoError(t, err)
	assert.EqualValues(t, 1, p.PositiveRatings)
	assert.EqualValues(t, 0, p.NeutralRatings)
	assert.EqualValues(t, 1, p.NegativeRatings)
}

func TestPg_IncrementRatingCounter_Idempotent(t *testing.T) {
	defer cleanup(t)

	createProfile(t, "owner")
	createPost(t, "1234", "owner", entities.GlassCategory, time.Now())

	// retries of the same completion bump the counter exactly once
	for i := 0; i < 5; i++ {
		require.NoError(t, s.IncrementRatingCounter(ctx, "owner", entities.PositiveRating, "1234"))
	}

	p, err := s.GetProfile(ctx, "owner")
	require.NoError(t, err)
	assert.EqualValues(t, 1, p.PositiveRatings)
}

func TestPg_IncrementRatingCounter_Concurrent(t *testing.T) {
	defer cleanup(t)

	const increments = 16

	createProfile(t, "owner")
	for i := 0; i < increments; i++ {
		createPost(t, fmt.Sprintf("post-%d", i), "owner", entities.GlassCategory, time.Now())
	}

	var wg sync.WaitGroup
	for i := 0; i < increments; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.IncrementRatingCounter(ctx, "owner", entities.PositiveRating, fmt.Sprintf("post-%d", i)))
		}(i)
	}
	wg.Wait()

	p, err := s.GetProfile(ctx, "owner")
	require.NoError(t, err)
	assert.EqualValues(t, increments, p.PositiveRatings)
}

func TestPg_IncrementRatingCounter_UnknownPost(t *testing.T) {
	defer cleanup(t)

	createProfile(t, "owner")

	err := s.IncrementRatingCounter(ctx, "owner", entities.PositiveRating, "missing")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestPg_ListExpiredClaims(t *testing.T) {
	defer cleanup(t)

	createProfile(t, "owner")
	createProfile(t, "collector")

	base := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)

	createPost(t, "stale", "owner", entities.GlassCategory, base)
	claimPost(t, "stale", "collector", base)

	createPost(t, "fresh", "owner", entities.GlassCategory, base)
	claimPost(t, "fresh", "collector", base.Add(time.Hour))

	createPost(t, "untouched", "owner", entities.GlassCategory, base)

	cc, err := s.ListExpiredClaims(ctx, base.Add(30*time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, cc, 1)
	assert.Equal(t, "stale", cc[0].PostUUID)
	assert.Equal(t, "collector", cc[0].ClaimedBy)
	assert.Equal(t, base, cc[0].ClaimedAt.UTC())
}

func TestPg_ListPendingRatings(t *testing.T) {
	defer cleanup(t)

	createProfile(t, "owner")
	createProfile(t, "collector")

	claimedAt := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)

	createPost(t, "1234", "owner", entities.GlassCategory, time.Now())
	claimPost(t, "1234", "collector", claimedAt)
	require.NoError(t, s.UpdatePostStatus(ctx, "1234", &storage.UpdateStatusParams{
		Expected:  entities.ClaimedStatus,
		New:       entities.CollectedStatus,
		ClaimedBy: "collector",
		Rating:    entities.NeutralRating,
	}))

	rr, err := s.ListPendingRatings(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rr, 1)
	assert.Equal(t, "1234", rr[0].PostUUID)
	assert.Equal(t, "owner", rr[0].Owner)
	assert.Equal(t, entities.NeutralRating, rr[0].Rating)

	// applied ratings disappear from the backlog
	require.NoError(t, s.IncrementRatingCounter(ctx, "owner", rr[0].Rating, rr[0].PostUUID))

	rr, err = s.ListPendingRatings(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, rr)
}

func TestPg_GetStats(t *testing.T) {
	defer cleanup(t)

	createProfile(t, "owner")
	createProfile(t, "collector")

	claimedAt := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)

	createPost(t, "1", "owner", entities.GlassCategory, time.Now())
	createPost(t, "2", "owner", entities.GlassCategory, time.Now())
	createPost(t, "3", "owner", entities.GlassCategory, time.Now())
	createPost(t, "4", "owner", entities.GlassCategory, time.Now())

	claimPost(t, "3", "collector", claimedAt)

	claimPost(t, "4", "collector", claimedAt)
	require.NoError(t, s.UpdatePostStatus(ctx, "4", &storage.UpdateStatusParams{
		Expected:  entities.ClaimedStatus,
		New:       entities.CollectedStatus,
		ClaimedBy: "collector",
		Rating:    entities.PositiveRating,
	}))

	stats, err := s.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &storage.Stats{
		AvailablePosts: 2,
		ClaimedPosts:   1,
		CollectedPosts: 1,
	}, stats)
}
