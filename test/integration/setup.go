package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"restaurante/internal/app"
	"restaurante/internal/config"
	"restaurante/internal/database"
	"restaurante/internal/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container with the snapshots table.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// testConfig returns a configuration for the in-memory backend.
func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:               "127.0.0.1",
			Port:               8080,
			PublicBaseURL:      "http://restaurante.test",
			CORSAllowedOrigins: []string{"*"},
		},
		Logger:  config.LoggerConfig{Level: "error", Format: "json"},
		Storage: config.StorageConfig{Backend: config.BackendMemory},
		Order:   config.OrderConfig{RestaurantPolicy: config.PolicyLineItems},
		Session: config.SessionConfig{TTLMinutes: 60},
	}
}

// client drives the API in-process.
type client struct {
	t       *testing.T
	handler http.Handler
}

// newClient builds the whole application on top of store.
func newClient(t *testing.T, store storage.Store, opts ...app.Option) *client {
	t.Helper()

	opts = append([]app.Option{app.WithPasswordCost(bcrypt.MinCost)}, opts...)
	a, err := app.Build(context.Background(), testConfig(), store, zerolog.Nop(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	return &client{t: t, handler: a.Handler}
}

func (c *client) do(method, path, token string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	return w
}

// decode runs a request, checks its status and decodes the JSON response into dst.
func (c *client) decode(method, path, token string, body any, status int, dst any) {
	c.t.Helper()

	w := c.do(method, path, token, body)
	require.Equal(c.t, status, w.Code, w.Body.String())
	if dst != nil {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), dst))
	}
}

// login opens a session for a seeded account, whose password is always 123456.
func (c *client) login(email string) string {
	c.t.Helper()

	var session struct {
		Token string `json:"token"`
	}
	c.decode(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": "123456"}, http.StatusOK, &session)
	require.NotEmpty(c.t, session.Token)
	return session.Token
}
