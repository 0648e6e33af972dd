package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/Abhay69095/Buildmart/internal/config"
	"github.com/Abhay69095/Buildmart/internal/http/handlers"
	"github.com/Abhay69095/Buildmart/internal/models"
	"github.com/Abhay69095/Buildmart/internal/service"
	"github.com/Abhay69095/Buildmart/mocks"
)

func routerCfg() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:       "router-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 168 * time.Hour,
		Issuer:          "buildmart",
	}
}

// newRouter собирает полный стек: роутер + middleware + реальный Service
// поверх мок-хранилища, и логин-токен для пользователя user.
func newRouter(t *testing.T, user *models.User) (http.Handler, *mocks.MockStorage, string) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	st := mocks.NewMockStorage(ctrl)
	svc := service.New(st, routerCfg(), config.LimitsConfig{RecentOrders: 10, Activities: 100})
	h := handlers.New(svc, routerCfg(), "local")

	router := NewRouter(h, Options{Timeout: 5 * time.Second, BasePath: "/api"})

	return router, st, signAccessToken(t, user.ID)
}

// signAccessToken подписывает access-токен тем же секретом, что и сервис,
// в том же формате клеймов.
func signAccessToken(t *testing.T, userID string) string {
	t.Helper()

	cfg := routerCfg()
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": userID,
		"sub":    userID,
		"iss":    cfg.Issuer,
		"iat":    now.Unix(),
		"exp":    now.Add(cfg.AccessTokenTTL).Unix(),
	})

	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)
	return signed
}

func TestRouter_AdminRoute_UserRole403(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: "u1", Role: models.RoleUser}
	router, st, token := newRouter(t, user)

	st.EXPECT().UserByID(gomock.Any(), "u1").Return(user, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard-stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), "forbidden")
}

func TestRouter_AdminRoute_AdminOK(t *testing.T) {
	t.Parallel()

	admin := &models.User{ID: "a1", Role: models.RoleAdmin}
	router, st, token := newRouter(t, admin)

	st.EXPECT().UserByID(gomock.Any(), "a1").Return(admin, nil)
	st.EXPECT().DashboardStats(gomock.Any(), int64(10)).
		Return(&models.DashboardStats{TotalOrders: 7, RecentOrders: []models.Order{}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard-stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"totalOrders":7`)
}

func TestRouter_ProtectedRoute_NoToken401(t *testing.T) {
	t.Parallel()

	router, _, _ := newRouter(t, &models.User{ID: "u1", Role: models.RoleUser})

	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_ProtectedRoute_BearerWithoutSpace(t *testing.T) {
	t.Parallel()

	admin := &models.User{ID: "a1", Role: models.RoleAdmin}
	router, st, token := newRouter(t, admin)

	st.EXPECT().UserByID(gomock.Any(), "a1").Return(admin, nil)
	st.EXPECT().ListOrders(gomock.Any()).Return([]models.Order{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	// Слитный вариант заголовка, который слал старый фронт.
	req.Header.Set("Authorization", "Bearer"+token)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_PublicRoute_NoTokenNeeded(t *testing.T) {
	t.Parallel()

	router, st, _ := newRouter(t, &models.User{ID: "u1", Role: models.RoleUser})

	st.EXPECT().ListProducts(gomock.Any()).Return([]models.Product{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RequestIDOnResponses(t *testing.T) {
	t.Parallel()

	router, st, _ := newRouter(t, &models.User{ID: "u1", Role: models.RoleUser})

	st.EXPECT().ListProducts(gomock.Any()).Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
