package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *EmbeddingService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewEmbeddingService(Config{
		BaseURL:    server.URL,
		Model:      "test-model",
		Dimensions: 3,
	})
}

func TestEmbed_Success(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)

		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Equal(t, "hello", req.Prompt)

		w.Write([]byte(`{"embedding":[0.1,0.2,0.3]}`)) //nolint:errcheck
	})

	got, err := svc.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.InDelta(t, 0.1, got[0], 1e-6)
}

func TestEmbed_EmptyText(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := svc.Embed(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestEmbed_WrongDimension(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"embedding":[0.1,0.2]}`)) //nolint:errcheck
	})

	_, err := svc.Embed(context.Background(), "hello")
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestEmbed_ServerError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := svc.Embed(context.Background(), "hello")
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestEmbed_MalformedResponse(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`)) //nolint:errcheck
	})

	_, err := svc.Embed(context.Background(), "hello")
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestEmbedBatch_PreservesOrder(t *testing.T) {
	calls := 0
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		// Encode the call ordinal into the vector.
		calls++
		resp := embedResponse{Embedding: []float64{float64(calls), 0, 0}}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	got, err := svc.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, float32(1), got[0][0])
	assert.Equal(t, float32(2), got[1][0])
	assert.Equal(t, float32(3), got[2][0])
}

func TestServiceMetadata(t *testing.T) {
	svc := NewEmbeddingService(Config{})

	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, DefaultDimensions, svc.Dimensions())
	assert.NoError(t, svc.Close())
}
