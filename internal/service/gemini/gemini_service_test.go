package gemini

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evote-api/internal/domain"
	"evote-api/pkg/logger"
)

func newTestService(t *testing.T, apiKey string) *Service {
	t.Helper()
	log, err := logger.New("error", "test")
	require.NoError(t, err)
	return NewService(apiKey, log).(*Service)
}

func TestGenerateBio_MissingKeyFallback(t *testing.T) {
	svc := newTestService(t, "")
	got := svc.GenerateBio(context.Background(), "Elena Rodriguez", domain.DepartmentPresident)
	assert.Equal(t, fallbackNoKeyBio, got)
}

func TestAnalyzeResults_MissingKeyFallback(t *testing.T) {
	svc := newTestService(t, "")
	got := svc.AnalyzeResults(context.Background(), domain.SeedCandidates())
	assert.Equal(t, fallbackNoKeyAnalysis, got)
}

func TestGenerateBio_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"An inspiring leader."}]}}]}`))
	}))
	defer server.Close()

	svc := newTestService(t, "test-key")
	svc.baseURL = server.URL

	got := svc.GenerateBio(context.Background(), "Elena Rodriguez", domain.DepartmentPresident)
	assert.Equal(t, "An inspiring leader.", got)
}

func TestGenerateBio_ServerErrorFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := newTestService(t, "test-key")
	svc.baseURL = server.URL

	got := svc.GenerateBio(context.Background(), "Elena Rodriguez", domain.DepartmentPresident)
	assert.Equal(t, fallbackFailedBio, got)
}

func TestAnalyzeResults_TransportFailureFallback(t *testing.T) {
	svc := newTestService(t, "test-key")
	svc.baseURL = "http://127.0.0.1:1" // nothing listens here

	got := svc.AnalyzeResults(context.Background(), domain.SeedCandidates())
	assert.Equal(t, fallbackFailedAnalysis, got)
}

func TestGenerateBio_EmptyResponseFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	svc := newTestService(t, "test-key")
	svc.baseURL = server.URL

	got := svc.GenerateBio(context.Background(), "Elena Rodriguez", domain.DepartmentPresident)
	assert.Equal(t, fallbackFailedBio, got)
}
