package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopspring/decimal"
	"github.com/sofiaibarra/blendery-backend/internal/auth"
	"github.com/sofiaibarra/blendery-backend/internal/catalog"
	"github.com/sofiaibarra/blendery-backend/internal/mixes"
	"github.com/sofiaibarra/blendery-backend/internal/notifications"
	"github.com/sofiaibarra/blendery-backend/internal/orders"
	"github.com/sofiaibarra/blendery-backend/internal/points"
	products "github.com/sofiaibarra/blendery-backend/internal/products"
	pkgAuth "github.com/sofiaibarra/blendery-backend/pkg/auth"
	"github.com/sofiaibarra/blendery-backend/pkg/auth/session"
	"github.com/sofiaibarra/blendery-backend/pkg/config"
	"github.com/sofiaibarra/blendery-backend/pkg/db/models"
	"github.com/sofiaibarra/blendery-backend/pkg/enums"
	"github.com/sofiaibarra/blendery-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

func (stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	return "", "", session.ErrInvalidRefreshToken
}

func (stubSessionManager) Revoke(ctx context.Context, accessID string) error { return nil }

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{}, nil
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{}, nil
}

type stubCatalogService struct{}

func (stubCatalogService) IngredientsByCategory(ctx context.Context) ([]catalog.CategoryGroup, error) {
	return nil, nil
}

func (stubCatalogService) AvailablePackagings(ctx context.Context) ([]models.Packaging, error) {
	return nil, nil
}

func (stubCatalogService) GetPackaging(ctx context.Context, id uuid.UUID) (*models.Packaging, error) {
	return nil, nil
}

func (stubCatalogService) CreateIngredient(ctx context.Context, row *models.Ingredient) error {
	return nil
}

func (stubCatalogService) UpdateIngredient(ctx context.Context, row *models.Ingredient) error {
	return nil
}

func (stubCatalogService) CreatePackaging(ctx context.Context, row *models.Packaging) error {
	return nil
}

func (stubCatalogService) UpdatePackaging(ctx context.Context, row *models.Packaging) error {
	return nil
}

type stubMixesService struct{}

func (stubMixesService) Create(ctx context.Context, userID uuid.UUID, input mixes.CreateMixInput) (*mixes.MixDTO, error) {
	return &mixes.MixDTO{}, nil
}

func (stubMixesService) Update(ctx context.Context, userID, mixID uuid.UUID, input mixes.UpdateMixInput) (*mixes.MixDTO, error) {
	return &mixes.MixDTO{}, nil
}

func (stubMixesService) Get(ctx context.Context, userID, mixID uuid.UUID) (*mixes.MixDTO, error) {
	return &mixes.MixDTO{}, nil
}

func (stubMixesService) ListMine(ctx context.Context, userID uuid.UUID) ([]mixes.MixDTO, error) {
	return nil, nil
}

func (stubMixesService) ListPublished(ctx context.Context, limit int, cursor string) (*mixes.MixListResult, error) {
	return &mixes.MixListResult{}, nil
}

func (stubMixesService) SetItemWeight(ctx context.Context, userID, mixID, ingredientID uuid.UUID, weightGrams int) (*mixes.MixDTO, error) {
	return &mixes.MixDTO{}, nil
}

func (stubMixesService) Quote(ctx context.Context, userID, mixID uuid.UUID) (*mixes.QuoteDTO, error) {
	return &mixes.QuoteDTO{}, nil
}

func (stubMixesService) Publish(ctx context.Context, userID, mixID uuid.UUID) (*mixes.MixDTO, error) {
	return &mixes.MixDTO{}, nil
}

func (stubMixesService) Delete(ctx context.Context, userID, mixID uuid.UUID) error { return nil }

func (stubMixesService) Like(ctx context.Context, userID, mixID uuid.UUID) error { return nil }

func (stubMixesService) Unlike(ctx context.Context, userID, mixID uuid.UUID) error { return nil }

type stubPointsService struct{}

func (stubPointsService) Adjust(ctx context.Context, input points.AdjustInput) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (stubPointsService) AdjustTx(ctx context.Context, tx *gorm.DB, input points.AdjustInput) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (stubPointsService) AwardOnce(ctx context.Context, tx *gorm.DB, input points.AdjustInput) (bool, error) {
	return false, nil
}

func (stubPointsService) BulkAdjust(ctx context.Context, userIDs []uuid.UUID, delta decimal.Decimal, notes string) (int, error) {
	return 0, nil
}

func (stubPointsService) History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.PointsLedgerEntry, error) {
	return nil, nil
}

func (stubPointsService) Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (stubPointsService) BalanceTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type stubOrdersService struct{}

func (stubOrdersService) PurchaseMix(ctx context.Context, buyerID uuid.UUID, input orders.PurchaseInput) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrdersService) CompleteOrder(ctx context.Context, orderID uuid.UUID) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrdersService) PayWithPoints(ctx context.Context, userID, orderID uuid.UUID) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrdersService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrdersService) ListMine(ctx context.Context, userID uuid.UUID) ([]orders.OrderDTO, error) {
	return nil, nil
}

type stubProductsService struct{}

func (stubProductsService) EnsurePublicProduct(ctx context.Context, tx *gorm.DB, mix *models.Mix, totals points.Totals) (*models.ShopProduct, error) {
	return nil, nil
}

func (stubProductsService) FindOrCreatePrivate(ctx context.Context, tx *gorm.DB, mix *models.Mix, buyerID uuid.UUID, totals points.Totals) (*models.ShopProduct, error) {
	return nil, nil
}

func (stubProductsService) GetShopProduct(ctx context.Context, id uuid.UUID) (*products.ShopProductDTO, error) {
	return &products.ShopProductDTO{}, nil
}

func (stubProductsService) ListShop(ctx context.Context, limit int, cursor string) (*products.ShopListResult, error) {
	return &products.ShopListResult{}, nil
}

type stubNotificationsService struct{}

func (stubNotificationsService) List(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error) {
	return &notifications.ListResult{}, nil
}

func (stubNotificationsService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return nil
}

func (stubNotificationsService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func (stubNotificationsService) NotifyPublishedMixDeleted(ctx context.Context, tx *gorm.DB, mixID uuid.UUID, mixName string, ownerID uuid.UUID) error {
	return nil
}

func routerTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT = config.JWTConfig{
		Secret:            "router-test-secret",
		Issuer:            "blendery",
		ExpirationMinutes: 30,
	}
	return cfg
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test"})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		nil,
		stubSessionManager{},
		stubAuthService{},
		stubRegisterService{},
		stubCatalogService{},
		stubMixesService{},
		stubPointsService{},
		stubOrdersService{},
		stubProductsService{},
		stubNotificationsService{},
	)
}

func mintRouterToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestRouterPublicEndpoints(t *testing.T) {
	router := newTestRouter(routerTestConfig())

	for _, target := range []string{"/health/live", "/health/ready", "/api/public/ping", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s returned %d: %s", target, resp.Code, resp.Body.String())
		}
	}
}

func TestRouterRequiresAuth(t *testing.T) {
	router := newTestRouter(routerTestConfig())

	for _, target := range []string{
		"/api/ping",
		"/api/v1/catalog/ingredients",
		"/api/v1/points/balance",
		"/api/v1/mixes/",
		"/api/v1/orders/",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s returned %d, want 401", target, resp.Code)
		}
	}
}

func TestRouterAuthedCustomerAccess(t *testing.T) {
	cfg := routerTestConfig()
	router := newTestRouter(cfg)
	token := mintRouterToken(t, cfg, enums.UserRoleCustomer)

	for _, target := range []string{
		"/api/ping",
		"/api/v1/catalog/ingredients",
		"/api/v1/catalog/packagings",
		"/api/v1/points/balance",
		"/api/v1/points/history",
		"/api/v1/mixes/published",
		"/api/v1/shop/products/",
		"/api/v1/notifications/",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s returned %d: %s", target, resp.Code, resp.Body.String())
		}
	}
}

func TestRouterAdminGate(t *testing.T) {
	cfg := routerTestConfig()
	router := newTestRouter(cfg)

	customerToken := mintRouterToken(t, cfg, enums.UserRoleCustomer)
	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+customerToken)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("customer on admin route returned %d, want 403", resp.Code)
	}

	adminToken := mintRouterToken(t, cfg, enums.UserRoleAdmin)
	req = httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("admin on admin route returned %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRouterOrderCompletionAdminOnly(t *testing.T) {
	cfg := routerTestConfig()
	router := newTestRouter(cfg)
	target := "/api/v1/orders/" + uuid.NewString() + "/complete"

	customerToken := mintRouterToken(t, cfg, enums.UserRoleCustomer)
	req := httptest.NewRequest(http.MethodPost, target, nil)
	req.Header.Set("Authorization", "Bearer "+customerToken)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("customer completing an order returned %d, want 403", resp.Code)
	}

	adminToken := mintRouterToken(t, cfg, enums.UserRoleAdmin)
	req = httptest.NewRequest(http.MethodPost, target, nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("admin completing an order returned %d: %s", resp.Code, resp.Body.String())
	}
}
