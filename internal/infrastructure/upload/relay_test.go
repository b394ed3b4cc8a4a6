package upload

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sdaadmin/app/internal/domain/media"
)

func TestRelayStoreReturnsURLFromResponse(t *testing.T) {
	t.Parallel()

	var received struct {
		filename    string
		contentType string
		data        []byte
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()

		received.filename = header.Filename
		received.contentType = header.Header.Get("Content-Type")
		received.data, _ = io.ReadAll(file)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"url":"https://cdn.example/uploads/logo.png"}`))
	}))
	t.Cleanup(server.Close)

	relay := newTestRelay(t, Options{Endpoint: server.URL})

	url, err := relay.Store(context.Background(), media.File{Name: "logo.png", ContentType: "image/png", Data: []byte("png")})
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example/uploads/logo.png", url)
	assert.Equal(t, "logo.png", received.filename)
	assert.Equal(t, "image/png", received.contentType)
	assert.Equal(t, []byte("png"), received.data)
}

func TestRelayStoreReadsNestedURLField(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"file":{"url":"https://cdn.example/nested.jpg"}}}`))
	}))
	t.Cleanup(server.Close)

	relay := newTestRelay(t, Options{Endpoint: server.URL, URLField: "data.file.url"})

	url, err := relay.Store(context.Background(), media.File{Name: "nested.jpg", Data: []byte("jpg")})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/nested.jpg", url)
}

func TestRelayStoreDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "unsupported file type", http.StatusBadRequest)
	}))
	t.Cleanup(server.Close)

	relay := newTestRelay(t, Options{Endpoint: server.URL, MaxAttempts: 3})

	_, err := relay.Store(context.Background(), media.File{Name: "notes.exe", Data: []byte("MZ")})
	require.Error(t, err)

	var uploadErr *media.UploadError
	require.True(t, errors.As(err, &uploadErr))
	assert.Equal(t, http.StatusBadRequest, uploadErr.Status)
	assert.Equal(t, "400 unsupported file type", uploadErr.Message)
	assert.ErrorIs(t, err, media.ErrUpload)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRelayStoreRetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "try again", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"url":"https://cdn.example/second.png"}`))
	}))
	t.Cleanup(server.Close)

	relay := newTestRelay(t, Options{Endpoint: server.URL, MaxAttempts: 3})

	url, err := relay.Store(context.Background(), media.File{Name: "second.png", Data: []byte("png")})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/second.png", url)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRelayStoreGivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "storage offline", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	relay := newTestRelay(t, Options{Endpoint: server.URL, MaxAttempts: 3})

	_, err := relay.Store(context.Background(), media.File{Name: "a.png", Data: []byte("png")})
	require.Error(t, err)

	var uploadErr *media.UploadError
	require.True(t, errors.As(err, &uploadErr))
	assert.Equal(t, http.StatusInternalServerError, uploadErr.Status)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRelayStoreRejectsResponseWithoutURL(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	t.Cleanup(server.Close)

	relay := newTestRelay(t, Options{Endpoint: server.URL})

	_, err := relay.Store(context.Background(), media.File{Name: "a.png", Data: []byte("png")})
	require.Error(t, err)
	assert.ErrorIs(t, err, media.ErrUpload)
}

func TestRelayStoreAppliesPerAttemptTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	relay := newTestRelay(t, Options{Endpoint: server.URL, Timeout: 20 * time.Millisecond, MaxAttempts: 1})

	start := time.Now()
	_, err := relay.Store(context.Background(), media.File{Name: "slow.png", Data: []byte("png")})
	require.Error(t, err)
	assert.ErrorIs(t, err, media.ErrUpload)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRelayStoreRejectsEmptyFile(t *testing.T) {
	t.Parallel()

	relay := newTestRelay(t, Options{Endpoint: "http://127.0.0.1:1/upload"})

	_, err := relay.Store(context.Background(), media.File{Name: "empty.png"})
	assert.ErrorIs(t, err, media.ErrEmptyFile)
}

func TestNewRelayRequiresEndpoint(t *testing.T) {
	t.Parallel()

	_, err := NewRelay(Options{})
	assert.Error(t, err)
}

func newTestRelay(t *testing.T, opts Options) *Relay {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	opts.Logger = logger
	opts.InitialInterval = time.Millisecond

	relay, err := NewRelay(opts)
	require.NoError(t, err)
	return relay
}
