package parser

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-match-go/internal/config"
)

func newTestEmbedder(t *testing.T, serverURL, authStyle string) *AzureEmbedder {
	t.Helper()
	embedder, err := NewAzureEmbedder(config.AzureConfig{
		ScoringURI: serverURL,
		PrimaryKey: "test-key",
		AuthStyle:  authStyle,
	})
	require.NoError(t, err)
	return embedder
}

func TestEmbedStringsBareArrayResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req azureEmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "golang developer", req.Text)

		json.NewEncoder(w).Encode([]float64{0.1, 0.2, 0.3})
	}))
	defer server.Close()

	embedder := newTestEmbedder(t, server.URL, "bearer")
	vectors, err := embedder.EmbedStrings(context.Background(), []string{"golang developer"})
	require.NoError(t, err)
	require.Len(t, vectors, 1)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, vectors[0])
}

func TestEmbedStringsEmbeddingFieldResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"embedding": []float64{1.5, -0.5}})
	}))
	defer server.Close()

	embedder := newTestEmbedder(t, server.URL, "bearer")
	vectors, err := embedder.EmbedStrings(context.Background(), []string{"any text"})
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, -0.5}, vectors[0])
}

func TestEmbedStringsDoubleEncodedResponse(t *testing.T) {
	// 端点偶尔把JSON响应再序列化成字符串返回
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner, _ := json.Marshal(map[string]interface{}{"embedding": []float64{0.7, 0.8}})
		json.NewEncoder(w).Encode(string(inner))
	}))
	defer server.Close()

	embedder := newTestEmbedder(t, server.URL, "bearer")
	vectors, err := embedder.EmbedStrings(context.Background(), []string{"any text"})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.7, 0.8}, vectors[0])
}

func TestEmbedStringsTripleEncodedRejected(t *testing.T) {
	// 只补救一层双重编码，更深的嵌套视为坏响应
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner, _ := json.Marshal([]float64{0.1})
		middle, _ := json.Marshal(string(inner))
		json.NewEncoder(w).Encode(string(middle))
	}))
	defer server.Close()

	embedder := newTestEmbedder(t, server.URL, "bearer")
	_, err := embedder.EmbedStrings(context.Background(), []string{"any text"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmbeddingService))
}

func TestEmbedStringsNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not deployed", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	embedder := newTestEmbedder(t, server.URL, "bearer")
	_, err := embedder.EmbedStrings(context.Background(), []string{"any text"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmbeddingService))
}

func TestEmbedStringsEmptyTextSkipsRequest(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode([]float64{0.9})
	}))
	defer server.Close()

	embedder := newTestEmbedder(t, server.URL, "bearer")
	vectors, err := embedder.EmbedStrings(context.Background(), []string{""})
	require.NoError(t, err)

	// 空文本得到一维零向量，不打端点
	assert.Equal(t, [][]float64{{0}}, vectors)
	assert.Equal(t, int32(0), calls.Load())
}

func TestEmbedStringsAPIKeyAuthHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "test-key", r.Header.Get("api-key"))
		json.NewEncoder(w).Encode([]float64{0.1})
	}))
	defer server.Close()

	embedder := newTestEmbedder(t, server.URL, "api-key")
	_, err := embedder.EmbedStrings(context.Background(), []string{"text"})
	require.NoError(t, err)
}

func TestNewAzureEmbedderValidation(t *testing.T) {
	_, err := NewAzureEmbedder(config.AzureConfig{PrimaryKey: "k"})
	assert.Error(t, err)

	_, err = NewAzureEmbedder(config.AzureConfig{ScoringURI: "https://x/score"})
	assert.Error(t, err)

	_, err = NewAzureEmbedder(config.AzureConfig{ScoringURI: "https://x/score", PrimaryKey: "k", AuthStyle: "digest"})
	assert.Error(t, err)
}
