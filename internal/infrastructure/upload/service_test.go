package upload_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	datacontent "sdaadmin/app/internal/data/content"
	"sdaadmin/app/internal/data/database"
	"sdaadmin/app/internal/data/migrations"
	"sdaadmin/app/internal/domain/admin"
	"sdaadmin/app/internal/domain/content"
	"sdaadmin/app/internal/domain/media"
	"sdaadmin/app/internal/infrastructure/upload"
)

func TestServiceCreateStoresURLFromUploadEndpoint(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, header, err := r.FormFile("file")
		if assert.NoError(t, err) {
			assert.Equal(t, "cover.png", header.Filename)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"url":"https://cdn.example/real.png"}`))
	}))
	t.Cleanup(server.Close)

	service := newRelayService(t, server.URL)
	file := media.File{Name: "cover.png", ContentType: "image/png", Data: []byte("png-bytes")}

	record, err := service.Create(context.Background(), admin.ResourceProjects,
		admin.Values{"title": map[string]any{"en": "Harbour"}},
		map[string]media.File{"cover_photo_url": file})
	require.NoError(t, err)

	project, ok := record.(*content.Project)
	require.True(t, ok)
	require.NotNil(t, project.CoverPhotoURL)
	assert.Equal(t, "https://cdn.example/real.png", *project.CoverPhotoURL)

	stored, err := service.Get(context.Background(), admin.ResourceProjects, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/real.png", *stored.(*content.Project).CoverPhotoURL)
}

func TestServiceCreateReportsUploadEndpointFailureOnField(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "storage offline", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	service := newRelayService(t, server.URL)
	file := media.File{Name: "cover.png", ContentType: "image/png", Data: []byte("png-bytes")}

	_, err := service.Create(context.Background(), admin.ResourceProjects,
		admin.Values{"title": map[string]any{"en": "Harbour"}},
		map[string]media.File{"cover_photo_url": file})

	verr, ok := admin.AsValidationError(err)
	require.True(t, ok, "expected validation error, got %v", err)
	assert.Contains(t, verr.Fields["cover_photo_url"], "Upload failed: 500")
	assert.Contains(t, verr.Fields["cover_photo_url"], "storage offline")

	counts, err := service.Counts(context.Background())
	require.NoError(t, err)
	assert.Zero(t, counts[admin.ResourceProjects])
}

func newRelayService(t *testing.T, endpoint string) admin.Service {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	db, err := database.Open(database.Options{Driver: database.DriverSQLite, Path: filepath.Join(t.TempDir(), "admin.db")})
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, database.Close(db))
	})
	require.NoError(t, migrations.Migrate(context.Background(), db, logger, migrations.Options{ManageContent: true}))

	repo, err := datacontent.NewRepository(db, logger)
	require.NoError(t, err)

	relay, err := upload.NewRelay(upload.Options{
		Endpoint:        endpoint,
		MaxAttempts:     2,
		InitialInterval: time.Millisecond,
		Logger:          logger,
	})
	require.NoError(t, err)

	service, err := admin.NewService(admin.DefaultRegistry(), repo, relay, admin.Settings{MaxUploadBytes: 1 << 20}, logger, nil)
	require.NoError(t, err)
	return service
}
