package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "dompet/internal/errors"
	"dompet/internal/models"
	"dompet/internal/services"
)

type mockAssetService struct {
	createFn func(ctx context.Context, userID string, input services.AssetInput) (*models.Asset, error)
	updateFn func(ctx context.Context, userID, assetID string, fields services.AssetUpdateFields) (*models.Asset, error)
	deleteFn func(ctx context.Context, userID, assetID string) error
}

func (m *mockAssetService) CreateAsset(ctx context.Context, userID string, input services.AssetInput) (*models.Asset, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID, input)
	}
	return &models.Asset{Name: input.Name}, nil
}

func (m *mockAssetService) ListAssets(_ context.Context, _ string) ([]models.Asset, error) {
	return []models.Asset{}, nil
}

func (m *mockAssetService) GetAssetByID(_ context.Context, _, _ string) (*models.Asset, error) {
	return &models.Asset{}, nil
}

func (m *mockAssetService) UpdateAsset(ctx context.Context, userID, assetID string, fields services.AssetUpdateFields) (*models.Asset, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, userID, assetID, fields)
	}
	return &models.Asset{}, nil
}

func (m *mockAssetService) DeleteAsset(ctx context.Context, userID, assetID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, assetID)
	}
	return nil
}

var _ services.AssetServicer = (*mockAssetService)(nil)

const testAssetID = "0190a5b2-8c3e-7d4f-9a1b-000000000004"

func setupAssetRouter(handler *AssetHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/assets", handler.CreateAsset)
	auth.GET("/assets", handler.GetAssets)
	auth.GET("/assets/:id", handler.GetAssetByID)
	auth.PUT("/assets/:id", handler.UpdateAsset)
	auth.DELETE("/assets/:id", handler.DeleteAsset)
	return r
}

func TestAssetHandler(t *testing.T) {
	t.Run("create returns 201", func(t *testing.T) {
		var got services.AssetInput
		svc := &mockAssetService{
			createFn: func(_ context.Context, _ string, input services.AssetInput) (*models.Asset, error) {
				got = input
				return &models.Asset{Base: models.Base{ID: testAssetID}, Name: input.Name}, nil
			},
		}
		inv := &mockInvalidator{}
		r := setupAssetRouter(NewAssetHandler(svc, &mockAuditService{}, inv))

		rec := doRequest(r, "POST", "/assets",
			`{"name":"Emas","type":"gold","purchase_value":"15000000","current_value":"17500000","purchase_date":"2023-08-17"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got.PurchaseDate.Equal(time.Date(2023, 8, 17, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected purchase date %v", got.PurchaseDate)
		}
		if inv.count() != 1 {
			t.Error("expected invalidation")
		}
	})

	t.Run("create allows zero current value", func(t *testing.T) {
		r := setupAssetRouter(NewAssetHandler(&mockAssetService{}, &mockAuditService{}, &mockInvalidator{}))

		rec := doRequest(r, "POST", "/assets",
			`{"name":"Motor","type":"vehicle","purchase_value":"20000000","current_value":"0","purchase_date":"2020-01-01"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("create rejects zero purchase value", func(t *testing.T) {
		r := setupAssetRouter(NewAssetHandler(&mockAssetService{}, &mockAuditService{}, &mockInvalidator{}))

		rec := doRequest(r, "POST", "/assets",
			`{"name":"Emas","type":"gold","purchase_value":"0","current_value":"1","purchase_date":"2023-08-17"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("create rejects negative current value", func(t *testing.T) {
		r := setupAssetRouter(NewAssetHandler(&mockAssetService{}, &mockAuditService{}, &mockInvalidator{}))

		rec := doRequest(r, "POST", "/assets",
			`{"name":"Emas","type":"gold","purchase_value":"10","current_value":"-1","purchase_date":"2023-08-17"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("create rejects bad purchase date", func(t *testing.T) {
		r := setupAssetRouter(NewAssetHandler(&mockAssetService{}, &mockAuditService{}, &mockInvalidator{}))

		rec := doRequest(r, "POST", "/assets",
			`{"name":"Emas","type":"gold","purchase_value":"10","current_value":"10","purchase_date":"17 Agustus"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("update passes purchase date", func(t *testing.T) {
		var got services.AssetUpdateFields
		svc := &mockAssetService{
			updateFn: func(_ context.Context, _, _ string, fields services.AssetUpdateFields) (*models.Asset, error) {
				got = fields
				return &models.Asset{}, nil
			},
		}
		r := setupAssetRouter(NewAssetHandler(svc, &mockAuditService{}, &mockInvalidator{}))

		rec := doRequest(r, "PUT", "/assets/"+testAssetID, `{"purchase_date":"2022-02-02"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got.PurchaseDate == nil || got.PurchaseDate.Day() != 2 {
			t.Errorf("unexpected fields %+v", got)
		}
	})

	t.Run("delete returns 404 when missing", func(t *testing.T) {
		svc := &mockAssetService{
			deleteFn: func(_ context.Context, _, _ string) error { return apperrors.ErrAssetNotFound },
		}
		r := setupAssetRouter(NewAssetHandler(svc, &mockAuditService{}, &mockInvalidator{}))

		rec := doRequest(r, "DELETE", "/assets/"+testAssetID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ASSET_NOT_FOUND")
	})
}
