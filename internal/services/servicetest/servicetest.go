// Package servicetest собирает окружение для тестов HTTP-сервисов.
package servicetest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/skillsphere-api/internal/metrics"
	"github.com/rajivgeraev/skillsphere-api/internal/seed"
	"github.com/rajivgeraev/skillsphere-api/internal/store"
	"github.com/rajivgeraev/skillsphere-api/internal/toast"
	"github.com/rajivgeraev/skillsphere-api/internal/utils"
)

// FixedNow время хранилища в тестах
var FixedNow = time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)

// Env тестовое окружение с засеянным хранилищем
type Env struct {
	App     *fiber.App
	Store   *store.Store
	Toasts  *toast.Manager
	JWT     *utils.JWTService
	Metrics *metrics.Metrics
	Seed    *seed.Data
}

// New создаёт окружение из встроенных начальных данных
func New(t *testing.T) *Env {
	t.Helper()

	data, err := seed.Default()
	require.NoError(t, err)

	var seq atomic.Int64
	toasts := toast.NewManager(toast.DefaultBufferSize)
	st := store.New(data.State(),
		store.WithClock(func() time.Time { return FixedNow }),
		store.WithIDGenerator(func(prefix string) string {
			return fmt.Sprintf("%s-test-%d", prefix, seq.Add(1))
		}),
		store.WithNotifier(toasts),
	)

	return &Env{
		App:     fiber.New(),
		Store:   st,
		Toasts:  toasts,
		JWT:     utils.NewJWTService("test-secret", time.Hour),
		Metrics: metrics.New(),
		Seed:    data,
	}
}

// Token выпускает JWT для пользователя
func (e *Env) Token(t *testing.T, userID string) string {
	t.Helper()
	token, err := e.JWT.GenerateToken(userID)
	require.NoError(t, err)
	return token
}

// Do выполняет запрос от имени userID (пустой означает без токена)
// и декодирует JSON-ответ в out, если он передан
func (e *Env) Do(t *testing.T, method, path, userID string, body, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+e.Token(t, userID))
	}

	resp, err := e.App.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode != http.StatusNoContent {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out), string(raw))
	}
	return resp.StatusCode
}
