package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"restaurante/internal/config"
	"restaurante/internal/messaging"
	"restaurante/internal/model"
	"restaurante/internal/promo"
	"restaurante/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func baseConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Host: "127.0.0.1", Port: 8080, PublicBaseURL: "http://localhost:8080", CORSAllowedOrigins: []string{"*"}},
		Logger:  config.LoggerConfig{Level: "error", Format: "json"},
		Storage: config.StorageConfig{Backend: config.BackendMemory},
		Order:   config.OrderConfig{RestaurantPolicy: config.PolicyLineItems},
		Session: config.SessionConfig{TTLMinutes: 30},
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	t.Run("memory", func(t *testing.T) {
		store, cleanup, err := OpenStore(ctx, baseConfig(), logger)
		require.NoError(t, err)
		defer cleanup()
		assert.IsType(t, &storage.MemoryStore{}, store)
	})

	t.Run("file with mirror", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Storage.Backend = config.BackendFile
		cfg.Storage.Dir = t.TempDir()
		cfg.Storage.MirrorDir = t.TempDir()

		store, cleanup, err := OpenStore(ctx, cfg, logger)
		require.NoError(t, err)
		defer cleanup()

		require.NoError(t, store.Save(ctx, storage.NamespaceOrders, []byte(`{"items":[]}`)))
		for _, dir := range []string{cfg.Storage.Dir, cfg.Storage.MirrorDir} {
			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, 1, dir)
		}
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := baseConfig()
		cfg.Storage.Backend = config.BackendRedis
		cfg.Redis = config.RedisConfig{Addr: mr.Addr(), KeyPrefix: "test:"}

		store, cleanup, err := OpenStore(ctx, cfg, logger)
		require.NoError(t, err)
		defer cleanup()

		require.NoError(t, store.Save(ctx, storage.NamespaceCart, []byte(`{"items":[]}`)))
		assert.True(t, mr.Exists("test:"+storage.NamespaceCart))
	})

	t.Run("redis unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		cfg := baseConfig()
		cfg.Storage.Backend = config.BackendRedis
		cfg.Redis = config.RedisConfig{Addr: addr}

		_, _, err := OpenStore(ctx, cfg, logger)
		assert.ErrorContains(t, err, "failed to connect to redis")
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Storage.Backend = "floppy"

		_, _, err := OpenStore(ctx, cfg, logger)
		assert.Error(t, err)
	})
}

func TestBuild_LoadsPromoFiles(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "promos.gz")
	var buf bytes.Buffer
	require.NoError(t, promo.Write(&buf, []promo.Promo{{Code: "BEMVINDO", Percent: decimal.NewFromInt(50)}}))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	cfg := baseConfig()
	cfg.Promo = config.PromoConfig{Enabled: true, Files: []string{path}}

	a, err := Build(ctx, cfg, storage.NewMemoryStore(), zerolog.Nop(), WithPasswordCost(bcrypt.MinCost))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	call := func(method, target, token string, body any) *httptest.ResponseRecorder {
		var b bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&b).Encode(body))
		}
		req := httptest.NewRequest(method, target, &b)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		a.Handler.ServeHTTP(w, req)
		return w
	}

	w := call(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "maria@email.com", "password": "123456"})
	require.Equal(t, http.StatusOK, w.Code)
	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))

	w = call(http.MethodPost, "/api/cart/items", session.Token, map[string]any{"productId": 12})
	require.Equal(t, http.StatusOK, w.Code)

	w = call(http.MethodPost, "/api/cart/checkout", session.Token, map[string]any{"category": "COUNTER", "promoCode": "bemvindo"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var o model.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &o))
	assert.True(t, decimal.RequireFromString("1.95").Equal(o.Total))
	assert.Equal(t, "BEMVINDO", o.PromoCode)
}

func TestBuild_MissingPromoFile(t *testing.T) {
	cfg := baseConfig()
	cfg.Promo = config.PromoConfig{Enabled: true, Files: []string{filepath.Join(t.TempDir(), "missing.gz")}}

	_, err := Build(context.Background(), cfg, storage.NewMemoryStore(), zerolog.Nop(), WithPasswordCost(bcrypt.MinCost))

	assert.ErrorContains(t, err, "failed to load promo codes")
}

type recordingWriter struct {
	closed int
}

func (w *recordingWriter) WriteMessages(context.Context, ...kafka.Message) error { return nil }

func (w *recordingWriter) Close() error {
	w.closed++
	return nil
}

func TestBuild_FailureClosesEventWriter(t *testing.T) {
	writer := &recordingWriter{}
	original := newMessageWriter
	newMessageWriter = func([]string, string) messaging.MessageWriter { return writer }
	t.Cleanup(func() { newMessageWriter = original })

	cfg := baseConfig()
	cfg.Kafka = config.KafkaConfig{Enabled: true, Brokers: []string{"localhost:9092"}, OrderTopic: "orders"}
	cfg.Promo = config.PromoConfig{Enabled: true, Files: []string{filepath.Join(t.TempDir(), "missing.gz")}}

	_, err := Build(context.Background(), cfg, storage.NewMemoryStore(), zerolog.Nop(), WithPasswordCost(bcrypt.MinCost))

	require.Error(t, err)
	assert.Equal(t, 1, writer.closed)
}

func TestBuild_ClosesEventWriter(t *testing.T) {
	writer := &recordingWriter{}
	original := newMessageWriter
	newMessageWriter = func([]string, string) messaging.MessageWriter { return writer }
	t.Cleanup(func() { newMessageWriter = original })

	cfg := baseConfig()
	cfg.Kafka = config.KafkaConfig{Enabled: true, Brokers: []string{"localhost:9092"}, OrderTopic: "orders"}

	a, err := Build(context.Background(), cfg, storage.NewMemoryStore(), zerolog.Nop(), WithPasswordCost(bcrypt.MinCost))
	require.NoError(t, err)
	assert.Zero(t, writer.closed)

	require.NoError(t, a.Close())
	assert.Equal(t, 1, writer.closed)
}

func TestSweepSessions(t *testing.T) {
	a, err := Build(context.Background(), baseConfig(), storage.NewMemoryStore(), zerolog.Nop(), WithPasswordCost(bcrypt.MinCost))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.SweepSessions(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
