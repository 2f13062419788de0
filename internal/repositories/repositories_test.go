package repositories

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/flickpick/internal/models"
	"github.com/desertthunder/flickpick/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

// createTestUser inserts a user with the given email
func createTestUser(t *testing.T, db *sql.DB, email string) *models.User {
	t.Helper()

	user := models.NewUser(0, email, "hash")
	if err := NewUserRepository(db).Create(user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

var inception = models.Movie{ID: 27205, Title: "Inception", ReleaseDate: "2010-07-15", PosterPath: "/inception.jpg"}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "users")
		if err != nil {
			t.Fatalf("NextSequence() error = %v", err)
		}
		if got != want {
			t.Errorf("NextSequence() = %d, want %d", got, want)
		}
	}

	if _, err := NextSequence(db, "movies"); err == nil {
		t.Error("expected error for table without sequence")
	}
}

func TestUserRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user := createTestUser(t, db, "test@example.com")

		if user.ID() == "" {
			t.Error("user ID should be set after creation")
		}
		if user.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", user.Sequence())
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		user := createTestUser(t, db, "test@example.com")

		retrieved, err := repo.Get(user.ID())
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}

		if retrieved.Email() != user.Email() {
			t.Errorf("expected email %s, got %s", user.Email(), retrieved.Email())
		}
		if retrieved.PasswordHash() != "hash" {
			t.Errorf("expected password hash to round trip, got %s", retrieved.PasswordHash())
		}
	})

	t.Run("GetByEmail", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		user := createTestUser(t, db, "test@example.com")

		retrieved, err := repo.GetByEmail("  TEST@example.com")
		if err != nil {
			t.Fatalf("failed to get user by email: %v", err)
		}
		if retrieved.ID() != user.ID() {
			t.Errorf("expected ID %s, got %s", user.ID(), retrieved.ID())
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		user := createTestUser(t, db, "test@example.com")

		user.SetPasswordHash("new-hash")
		if err := repo.Update(user); err != nil {
			t.Fatalf("failed to update user: %v", err)
		}

		retrieved, _ := repo.Get(user.ID())
		if retrieved.PasswordHash() != "new-hash" {
			t.Errorf("expected updated hash, got %s", retrieved.PasswordHash())
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		user := createTestUser(t, db, "test@example.com")

		if err := repo.Delete(user.ID()); err != nil {
			t.Fatalf("failed to delete user: %v", err)
		}

		if _, err := repo.Get(user.ID()); !errors.Is(err, shared.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound after soft delete, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		createTestUser(t, db, "a@example.com")
		createTestUser(t, db, "b@example.com")

		users, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list users: %v", err)
		}
		if len(users) != 2 {
			t.Fatalf("expected 2 users, got %d", len(users))
		}
		if users[0].Email() != "a@example.com" {
			t.Errorf("expected users ordered by sequence, got %s first", users[0].Email())
		}

		filtered, _ := repo.List(map[string]any{"email": "b@example.com"})
		if len(filtered) != 1 {
			t.Errorf("expected 1 filtered user, got %d", len(filtered))
		}
	})
}

func TestProfileRepository(t *testing.T) {
	t.Run("Create And Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewProfileRepository(db)
		user := createTestUser(t, db, "test@example.com")

		if err := repo.Create(&models.Profile{UserID: user.ID(), Username: "cobb"}); err != nil {
			t.Fatalf("failed to create profile: %v", err)
		}

		profile, err := repo.Get(user.ID())
		if err != nil {
			t.Fatalf("failed to get profile: %v", err)
		}
		if profile.Username != "cobb" {
			t.Errorf("expected username cobb, got %s", profile.Username)
		}

		byName, err := repo.GetByUsername("cobb")
		if err != nil || byName.UserID != user.ID() {
			t.Errorf("GetByUsername() = %v, %v", byName, err)
		}
	})

	t.Run("UsernameTaken", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewProfileRepository(db)
		user := createTestUser(t, db, "test@example.com")

		taken, err := repo.UsernameTaken("cobb")
		if err != nil || taken {
			t.Fatalf("UsernameTaken() = %v, %v; want false", taken, err)
		}

		repo.Create(&models.Profile{UserID: user.ID(), Username: "cobb"})

		taken, err = repo.UsernameTaken("cobb")
		if err != nil || !taken {
			t.Errorf("UsernameTaken() = %v, %v; want true", taken, err)
		}
	})
}

func TestSessionRepository(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewSessionRepository(db)
	user := createTestUser(t, db, "test@example.com")
	now := time.Now()

	live := &models.Session{Token: "live", UserID: user.ID(), Keep: true, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	stale := &models.Session{Token: "stale", UserID: user.ID(), CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}

	for _, s := range []*models.Session{live, stale} {
		if err := repo.Create(s); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}
	}

	got, err := repo.Get("live")
	if err != nil {
		t.Fatalf("failed to get session: %v", err)
	}
	if !got.Keep || got.UserID != user.ID() {
		t.Errorf("unexpected session: %+v", got)
	}

	removed, err := repo.DeleteExpired(now)
	if err != nil || removed != 1 {
		t.Errorf("DeleteExpired() = %d, %v; want 1", removed, err)
	}

	if _, err := repo.Get("stale"); !errors.Is(err, shared.ErrNotAuthenticated) {
		t.Errorf("expected expired session to be gone, got %v", err)
	}

	removed, err = repo.DeleteByUser(user.ID())
	if err != nil || removed != 1 {
		t.Errorf("DeleteByUser() = %d, %v; want 1", removed, err)
	}
}

func TestResetTokenRepository(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewResetTokenRepository(db)
	user := createTestUser(t, db, "test@example.com")
	now := time.Now()

	token := &models.ResetToken{Token: "tok", UserID: user.ID(), RedirectTo: "http://127.0.0.1:3000/reset-password", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	if err := repo.Create(token); err != nil {
		t.Fatalf("failed to create reset token: %v", err)
	}

	got, err := repo.Get("tok")
	if err != nil {
		t.Fatalf("failed to get reset token: %v", err)
	}
	if !got.Usable(now) {
		t.Error("fresh token should be usable")
	}

	if err := repo.MarkUsed("tok", now); err != nil {
		t.Fatalf("failed to mark token used: %v", err)
	}
	if err := repo.MarkUsed("tok", now); !errors.Is(err, shared.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken on second use, got %v", err)
	}

	got, _ = repo.Get("tok")
	if got.UsedAt == nil || got.Usable(now) {
		t.Error("used token should not be usable")
	}
}

func TestMovieRepository(t *testing.T) {
	t.Run("Upsert", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewMovieRepository(db)

		if err := repo.Upsert(inception); err != nil {
			t.Fatalf("failed to upsert movie: %v", err)
		}

		updated := inception
		updated.Overview = "A thief who steals corporate secrets"
		if err := repo.Upsert(updated); err != nil {
			t.Fatalf("failed to upsert movie again: %v", err)
		}

		got, err := repo.Get(inception.ID)
		if err != nil {
			t.Fatalf("failed to get movie: %v", err)
		}
		if got.Overview != updated.Overview {
			t.Errorf("expected refreshed overview, got %q", got.Overview)
		}

		count, _ := repo.Count()
		if count != 1 {
			t.Errorf("expected 1 cached movie, got %d", count)
		}
	})

	t.Run("MovieCacheAdapter", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewMovieRepository(db)
		adapter := NewMovieCacheAdapter(repo)

		if err := adapter.CacheMovie(inception); err != nil {
			t.Fatalf("failed to cache movie: %v", err)
		}
		if err := adapter.CacheMovie(inception); err != nil {
			t.Fatalf("caching a duplicate should succeed: %v", err)
		}

		cached, err := adapter.CachedMovie(inception.ID)
		if err != nil || cached.Title != "Inception" {
			t.Errorf("CachedMovie() = %v, %v", cached, err)
		}
	})
}

func TestRatingRepository(t *testing.T) {
	t.Run("Create And GetByUserMovie", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewRatingRepository(db)
		user := createTestUser(t, db, "test@example.com")

		rating := models.NewRating(0, user.ID(), inception, 9)
		if err := repo.Create(rating); err != nil {
			t.Fatalf("failed to create rating: %v", err)
		}

		got, err := repo.GetByUserMovie(user.ID(), inception.ID)
		if err != nil {
			t.Fatalf("failed to get rating: %v", err)
		}
		if got.Score() != 9 || got.MovieTitle() != "Inception" {
			t.Errorf("unexpected rating: score=%d title=%s", got.Score(), got.MovieTitle())
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewRatingRepository(db)
		user := createTestUser(t, db, "test@example.com")

		rating := models.NewRating(0, user.ID(), inception, 9)
		repo.Create(rating)

		rating.SetScore(7)
		if err := repo.Update(rating); err != nil {
			t.Fatalf("failed to update rating: %v", err)
		}

		got, _ := repo.GetByUserMovie(user.ID(), inception.ID)
		if got.Score() != 7 {
			t.Errorf("expected score 7, got %d", got.Score())
		}
	})

	t.Run("Delete And Rate Again", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewRatingRepository(db)
		user := createTestUser(t, db, "test@example.com")

		rating := models.NewRating(0, user.ID(), inception, 9)
		repo.Create(rating)

		if err := repo.Delete(rating.ID()); err != nil {
			t.Fatalf("failed to delete rating: %v", err)
		}
		if _, err := repo.GetByUserMovie(user.ID(), inception.ID); !errors.Is(err, shared.ErrRatingNotFound) {
			t.Errorf("expected ErrRatingNotFound, got %v", err)
		}

		if err := repo.Create(models.NewRating(0, user.ID(), inception, 4)); err != nil {
			t.Fatalf("re-rating a deleted movie should succeed: %v", err)
		}
		if err := repo.Delete(rating.ID()); !errors.Is(err, shared.ErrRatingNotFound) {
			t.Errorf("deleting twice: expected ErrRatingNotFound, got %v", err)
		}
	})

	t.Run("ListByUser", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewRatingRepository(db)
		movies := NewMovieRepository(db)
		user := createTestUser(t, db, "test@example.com")

		movies.Upsert(inception)
		repo.Create(models.NewRating(0, user.ID(), inception, 9))
		repo.Create(models.NewRating(0, user.ID(), models.Movie{ID: 603, Title: "The Matrix"}, 8))

		rated, err := repo.ListByUser(user.ID())
		if err != nil {
			t.Fatalf("failed to list rated movies: %v", err)
		}
		if len(rated) != 2 {
			t.Fatalf("expected 2 rated movies, got %d", len(rated))
		}

		if rated[0].Movie.Title != "The Matrix" {
			t.Errorf("expected newest rating first, got %s", rated[0].Movie.Title)
		}
		if rated[1].Movie.ReleaseDate != "2010-07-15" {
			t.Errorf("expected cached release date, got %q", rated[1].Movie.ReleaseDate)
		}
		if rated[0].Movie.ReleaseDate != "" {
			t.Errorf("uncached movie should have no release date, got %q", rated[0].Movie.ReleaseDate)
		}
	})
}
