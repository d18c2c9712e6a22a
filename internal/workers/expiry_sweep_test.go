package workers

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Jeremy-Bosire/PovertyLine/internal/models"
	"github.com/Jeremy-Bosire/PovertyLine/internal/tasks"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "povertyline-workers.sqlite")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// newDeadClient returns an asynq client pointed at a port nothing listens on.
// Sweeps treat a failed enqueue as delayed cleanup, so handlers must succeed
// even when the queue is unreachable.
func newDeadClient(t *testing.T) *asynq.Client {
	t.Helper()

	client := asynq.NewClient(asynq.RedisClientOpt{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         models.RoleUser,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func createResource(t *testing.T, db *gorm.DB, providerID string, status models.ResourceStatus, endDate *time.Time) *models.Resource {
	t.Helper()

	resource := &models.Resource{
		Title:        "Seasonal Meal Program",
		Description:  "Hot meals during the cold season",
		Category:     models.CategoryFood,
		ProviderID:   providerID,
		ProviderName: "Neighborhood Kitchen",
		Status:       status,
		EndDate:      endDate,
	}
	if err := db.Create(resource).Error; err != nil {
		t.Fatalf("failed to create resource: %v", err)
	}
	return resource
}

func createApplication(t *testing.T, db *gorm.DB, userID, resourceID string, status models.ApplicationStatus) *models.ResourceApplication {
	t.Helper()

	application := &models.ResourceApplication{
		UserID:     userID,
		ResourceID: resourceID,
		Status:     status,
	}
	if err := db.Create(application).Error; err != nil {
		t.Fatalf("failed to create application: %v", err)
	}
	return application
}

func TestHandleResourceExpirySweep(t *testing.T) {
	db := newTestDB(t)
	client := newDeadClient(t)
	provider := createUser(t, db, "sweeporg")

	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	tomorrow := time.Now().UTC().AddDate(0, 0, 1)
	today := time.Now().UTC().Truncate(24 * time.Hour)

	lapsed := createResource(t, db, provider.ID, models.ResourceStatusActive, &yesterday)
	current := createResource(t, db, provider.ID, models.ResourceStatusActive, &tomorrow)
	evergreen := createResource(t, db, provider.ID, models.ResourceStatusActive, nil)
	endsToday := createResource(t, db, provider.ID, models.ResourceStatusActive, &today)
	retired := createResource(t, db, provider.ID, models.ResourceStatusInactive, &yesterday)

	task, err := tasks.NewResourceExpirySweepTask()
	if err != nil {
		t.Fatalf("NewResourceExpirySweepTask() error = %v", err)
	}

	// The queue is unreachable, so chaining the application sweep fails.
	// The resource sweep itself must still succeed.
	if err := HandleResourceExpirySweep(context.Background(), task, client, db, zerolog.Nop()); err != nil {
		t.Fatalf("HandleResourceExpirySweep() error = %v", err)
	}

	wantStatus := map[string]models.ResourceStatus{
		lapsed.ID:    models.ResourceStatusExpired,
		current.ID:   models.ResourceStatusActive,
		evergreen.ID: models.ResourceStatusActive,
		// Resources stay active through the whole of their end date
		endsToday.ID: models.ResourceStatusActive,
		// Only active resources are swept; inactive ones keep their status
		retired.ID: models.ResourceStatusInactive,
	}
	for id, want := range wantStatus {
		var resource models.Resource
		if err := db.First(&resource, "id = ?", id).Error; err != nil {
			t.Fatalf("failed to load resource %s: %v", id, err)
		}
		if resource.Status != want {
			t.Errorf("resource %q status = %s, want %s", resource.Title, resource.Status, want)
		}
	}
}

func TestHandleResourceExpirySweepNothingToExpire(t *testing.T) {
	db := newTestDB(t)
	client := newDeadClient(t)
	provider := createUser(t, db, "quietorg")

	tomorrow := time.Now().UTC().AddDate(0, 0, 1)
	createResource(t, db, provider.ID, models.ResourceStatusActive, &tomorrow)

	task, err := tasks.NewResourceExpirySweepTask()
	if err != nil {
		t.Fatalf("NewResourceExpirySweepTask() error = %v", err)
	}

	if err := HandleResourceExpirySweep(context.Background(), task, client, db, zerolog.Nop()); err != nil {
		t.Fatalf("HandleResourceExpirySweep() error = %v", err)
	}
}

func TestHandleApplicationExpirySweep(t *testing.T) {
	db := newTestDB(t)
	provider := createUser(t, db, "closedorg")
	applicant := createUser(t, db, "applicant")

	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	closed := createResource(t, db, provider.ID, models.ResourceStatusExpired, &yesterday)
	open := createResource(t, db, provider.ID, models.ResourceStatusActive, nil)

	draft := createApplication(t, db, applicant.ID, closed.ID, models.ApplicationStatusDraft)
	submitted := createApplication(t, db, applicant.ID, closed.ID, models.ApplicationStatusSubmitted)
	approved := createApplication(t, db, applicant.ID, closed.ID, models.ApplicationStatusApproved)
	elsewhere := createApplication(t, db, applicant.ID, open.ID, models.ApplicationStatusSubmitted)

	task, err := tasks.NewApplicationExpirySweepTask(closed.ID)
	if err != nil {
		t.Fatalf("NewApplicationExpirySweepTask() error = %v", err)
	}

	if err := HandleApplicationExpirySweep(context.Background(), task, db, zerolog.Nop()); err != nil {
		t.Fatalf("HandleApplicationExpirySweep() error = %v", err)
	}

	wantStatus := map[string]models.ApplicationStatus{
		draft.ID:     models.ApplicationStatusExpired,
		submitted.ID: models.ApplicationStatusExpired,
		// Decided applications keep their outcome
		approved.ID: models.ApplicationStatusApproved,
		// Applications for other resources are untouched
		elsewhere.ID: models.ApplicationStatusSubmitted,
	}
	for id, want := range wantStatus {
		var application models.ResourceApplication
		if err := db.First(&application, "id = ?", id).Error; err != nil {
			t.Fatalf("failed to load application %s: %v", id, err)
		}
		if application.Status != want {
			t.Errorf("application %s status = %s, want %s", id, application.Status, want)
		}
	}
}

func TestHandleApplicationExpirySweepRejectsBadTasks(t *testing.T) {
	db := newTestDB(t)

	t.Run("MissingResourceID", func(t *testing.T) {
		task := asynq.NewTask(tasks.TypeApplicationExpirySweep, []byte("{}"))

		err := HandleApplicationExpirySweep(context.Background(), task, db, zerolog.Nop())
		if err == nil {
			t.Fatal("HandleApplicationExpirySweep() error = nil, want missing resource id error")
		}
		if !strings.Contains(err.Error(), "missing resource id") {
			t.Errorf("HandleApplicationExpirySweep() error = %v, want missing resource id error", err)
		}
	})

	t.Run("MalformedPayload", func(t *testing.T) {
		task := asynq.NewTask(tasks.TypeApplicationExpirySweep, []byte("not json"))

		if err := HandleApplicationExpirySweep(context.Background(), task, db, zerolog.Nop()); err == nil {
			t.Fatal("HandleApplicationExpirySweep() error = nil, want parse error")
		}
	})
}

func TestNextSweepTime(t *testing.T) {
	from := time.Date(2026, 8, 22, 10, 30, 0, 0, time.UTC)

	cases := []struct {
		name     string
		schedule string
		want     *time.Time
	}{
		{"hourly", "0 * * * *", timePtr(time.Date(2026, 8, 22, 11, 0, 0, 0, time.UTC))},
		{"quarter hour", "*/15 * * * *", timePtr(time.Date(2026, 8, 22, 10, 45, 0, 0, time.UTC))},
		{"daily", "30 2 * * *", timePtr(time.Date(2026, 8, 23, 2, 30, 0, 0, time.UTC))},
		{"empty", "", nil},
		{"garbage", "whenever", nil},
		{"out of range", "61 * * * *", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := nextSweepTime(tc.schedule, from)
			if tc.want == nil {
				if got != nil {
					t.Fatalf("nextSweepTime(%q) = %v, want nil", tc.schedule, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("nextSweepTime(%q) = nil, want %v", tc.schedule, tc.want)
			}
			if !got.Equal(*tc.want) {
				t.Errorf("nextSweepTime(%q) = %v, want %v", tc.schedule, got, tc.want)
			}
		})
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
