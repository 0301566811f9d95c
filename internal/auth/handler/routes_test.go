package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AnthoniusHendriyanto/blog-service/internal/auth/domain"
	"github.com/AnthoniusHendriyanto/blog-service/internal/auth/handler"
	"github.com/AnthoniusHendriyanto/blog-service/internal/auth/service"
	autherror "github.com/AnthoniusHendriyanto/blog-service/internal/errors"
	"github.com/AnthoniusHendriyanto/blog-service/internal/logger"
	"github.com/AnthoniusHendriyanto/blog-service/internal/mocks"
	"github.com/AnthoniusHendriyanto/blog-service/internal/ratelimit"
	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*fiber.App, *mocks.MockUserRepository, *mocks.MockTokenGenerator, *mocks.MockCounterStore) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRepo := mocks.NewMockUserRepository(ctrl)
	mockTokenService := mocks.NewMockTokenGenerator(ctrl)
	mockStore := mocks.NewMockCounterStore(ctrl)
	userService := service.NewUserService(mockRepo, mockTokenService, domain.SystemClock{})
	authHandler := handler.NewAuthHandler(userService, mockTokenService)
	healthHandler := handler.NewHealthHandler(pingOK{}, mockStore)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler, healthHandler, handler.Limiters{})

	return app, mockRepo, mockTokenService, mockStore
}

type pingOK struct{}

func (pingOK) Ping(ctx context.Context) error { return nil }

func accessTokenClaims(subject string) *service.JWTCustomClaims {
	claims := &service.JWTCustomClaims{TokenType: "access"}
	claims.Subject = subject
	return claims
}

// TestRegisterRoutes verifies that all non-protected routes are mounted correctly.
func TestRegisterRoutes(t *testing.T) {
	app, _, _, mockStore := newTestApp(t)
	mockStore.EXPECT().Ping(gomock.Any()).Return(nil).AnyTimes()

	testCases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/register"},
		{http.MethodPost, "/api/v1/login"},
		{http.MethodPost, "/api/v1/refresh"},
		{http.MethodGet, "/health/db"},
		{http.MethodGet, "/health/redis"},
		{http.MethodGet, "/health/full"},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s_%s_exists", tc.method, tc.path), func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			resp, err := app.Test(req)
			require.NoError(t, err)

			// We only care that the route exists. A 404 means it doesn't.
			// The actual handlers will return other codes (e.g., 400 Bad
			// Request for missing body), which is fine for this check.
			assert.NotEqual(t, http.StatusNotFound, resp.StatusCode)
		})
	}
}

// TestRequireAuthMiddleware provides focused testing for the authenticated route.
func TestRequireAuthMiddleware(t *testing.T) {
	t.Run("fails without auth header", func(t *testing.T) {
		app, _, _, _ := newTestApp(t)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("fails with malformed token", func(t *testing.T) {
		app, _, _, _ := newTestApp(t)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		req.Header.Set("Authorization", "BearerInvalidToken") // No space
		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("fails with undecodable token", func(t *testing.T) {
		app, _, mockTokenService, _ := newTestApp(t)

		mockTokenService.EXPECT().VerifyAccessToken("bad-token").
			Return(nil, autherror.ErrInvalidToken)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("fails when subject was deactivated after issuance", func(t *testing.T) {
		app, mockRepo, mockTokenService, _ := newTestApp(t)

		mockTokenService.EXPECT().VerifyAccessToken("stale-token").
			Return(accessTokenClaims("user-123"), nil)
		mockRepo.EXPECT().GetByID(gomock.Any(), "user-123").
			Return(&domain.User{ID: "user-123", Role: domain.RoleUser, Active: false}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		req.Header.Set("Authorization", "Bearer stale-token")
		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("succeeds for a live identity", func(t *testing.T) {
		app, mockRepo, mockTokenService, _ := newTestApp(t)

		mockTokenService.EXPECT().VerifyAccessToken("good-token").
			Return(accessTokenClaims("user-123"), nil)
		mockRepo.EXPECT().GetByID(gomock.Any(), "user-123").
			Return(&domain.User{ID: "user-123", Email: "test@example.com", Role: domain.RoleUser, Active: true}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

// TestRequireRoleMiddleware provides focused testing for the admin-only endpoints.
func TestRequireRoleMiddleware(t *testing.T) {
	adminRoute := "/api/v1/admin/users"

	t.Run("fails without auth header", func(t *testing.T) {
		app, _, _, _ := newTestApp(t)

		req := httptest.NewRequest(http.MethodGet, adminRoute, nil)
		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("fails for non-admin user", func(t *testing.T) {
		app, mockRepo, mockTokenService, _ := newTestApp(t)

		mockTokenService.EXPECT().VerifyAccessToken("user-token").
			Return(accessTokenClaims("user-123"), nil)
		mockRepo.EXPECT().GetByID(gomock.Any(), "user-123").
			Return(&domain.User{ID: "user-123", Role: domain.RoleUser, Active: true}, nil)

		req := httptest.NewRequest(http.MethodGet, adminRoute, nil)
		req.Header.Set("Authorization", "Bearer user-token")
		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("succeeds for admin user", func(t *testing.T) {
		app, mockRepo, mockTokenService, _ := newTestApp(t)

		mockTokenService.EXPECT().VerifyAccessToken("admin-token").
			Return(accessTokenClaims("admin-456"), nil)
		mockRepo.EXPECT().GetByID(gomock.Any(), "admin-456").
			Return(&domain.User{ID: "admin-456", Role: domain.RoleAdmin, Active: true}, nil)
		mockRepo.EXPECT().List(gomock.Any()).Return([]*domain.User{}, nil)

		req := httptest.NewRequest(http.MethodGet, adminRoute, nil)
		req.Header.Set("Authorization", "Bearer admin-token")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

// TestRateLimitMiddleware exercises the limiter through the login route.
func TestRateLimitMiddleware(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockUserRepository(ctrl)
	mockTokenService := mocks.NewMockTokenGenerator(ctrl)
	mockStore := mocks.NewMockCounterStore(ctrl)
	userService := service.NewUserService(mockRepo, mockTokenService, domain.SystemClock{})
	authHandler := handler.NewAuthHandler(userService, mockTokenService)
	healthHandler := handler.NewHealthHandler(pingOK{}, mockStore)

	loginLimiter := ratelimit.New("login", 5, 60, mockStore, domain.SystemClock{}, logger.NewNoop())

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler, healthHandler, handler.Limiters{Login: loginLimiter})

	t.Run("within budget passes through to the handler", func(t *testing.T) {
		mockStore.EXPECT().Increment(gomock.Any(), gomock.Any()).Return(int64(1), nil)
		mockStore.EXPECT().SetExpiry(gomock.Any(), gomock.Any(), 60*time.Second).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/login", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)

		// The handler rejects the empty body; the limiter let it through.
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("over budget is rejected before the handler", func(t *testing.T) {
		mockStore.EXPECT().Increment(gomock.Any(), gomock.Any()).Return(int64(6), nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/login", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	})
}
