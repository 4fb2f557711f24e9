package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "dompet/internal/errors"
	"dompet/internal/services"
)

// AssetHandler handles asset requests.
type AssetHandler struct {
	assetService services.AssetServicer
	auditService services.AuditServicer
	invalidator  Invalidator
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(assetService services.AssetServicer, auditService services.AuditServicer, invalidator Invalidator) *AssetHandler {
	return &AssetHandler{assetService: assetService, auditService: auditService, invalidator: invalidator}
}

// CreateAssetRequest represents the request payload for creating an asset.
type CreateAssetRequest struct {
	Name          string          `json:"name" binding:"required,max=100"`
	Type          string          `json:"type" binding:"required,max=50"`
	PurchaseValue decimal.Decimal `json:"purchase_value" binding:"positive_amount" swaggertype:"string" example:"15000000"`
	CurrentValue  decimal.Decimal `json:"current_value" binding:"non_negative_amount" swaggertype:"string" example:"17500000"`
	PurchaseDate  string          `json:"purchase_date" binding:"required" example:"2023-08-17"`
	Description   string          `json:"description" binding:"max=500"`
}

// UpdateAssetRequest represents the request payload for updating an asset.
type UpdateAssetRequest struct {
	Name          *string          `json:"name" binding:"omitempty,max=100"`
	Type          *string          `json:"type" binding:"omitempty,max=50"`
	PurchaseValue *decimal.Decimal `json:"purchase_value" binding:"omitempty,positive_amount" swaggertype:"string"`
	CurrentValue  *decimal.Decimal `json:"current_value" binding:"omitempty,non_negative_amount" swaggertype:"string"`
	PurchaseDate  *string          `json:"purchase_date"`
	Description   *string          `json:"description" binding:"omitempty,max=500"`
}

// CreateAsset handles the creation of an asset
// @Summary     Create an asset
// @Tags        assets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateAssetRequest true "Asset details"
// @Success     201 {object} models.Asset "Asset created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /assets [post]
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	purchaseDate, err := parseDate(req.PurchaseDate)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid purchase_date, use YYYY-MM-DD"))
		return
	}

	asset, err := h.assetService.CreateAsset(c.Request.Context(), userID, services.AssetInput{
		Name:          req.Name,
		Type:          req.Type,
		PurchaseValue: req.PurchaseValue,
		CurrentValue:  req.CurrentValue,
		PurchaseDate:  purchaseDate,
		Description:   req.Description,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "CREATE_ASSET", "asset", asset.ID, c.ClientIP(),
		map[string]interface{}{"name": asset.Name, "purchase_value": asset.PurchaseValue.String()})
	h.invalidator.Invalidate(c.Request.Context(), userID)

	c.JSON(http.StatusCreated, gin.H{"asset": asset})
}

// GetAssets handles listing the user's assets
// @Summary     List assets
// @Tags        assets
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  models.Asset "Assets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /assets [get]
func (h *AssetHandler) GetAssets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	assets, err := h.assetService.ListAssets(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"assets": assets})
}

// GetAssetByID handles the retrieval of one asset
// @Summary     Get asset by ID
// @Tags        assets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Asset ID"
// @Success     200 {object} models.Asset "Asset"
// @Failure     400 {object} ErrorResponse "Invalid asset ID"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Router      /assets/{id} [get]
func (h *AssetHandler) GetAssetByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	assetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	asset, err := h.assetService.GetAssetByID(c.Request.Context(), userID, assetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"asset": asset})
}

// UpdateAsset handles updating an asset
// @Summary     Update asset
// @Tags        assets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Asset ID"
// @Param       request body UpdateAssetRequest true "Fields to update"
// @Success     200 {object} models.Asset "Updated asset"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Router      /assets/{id} [put]
func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	assetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fields := services.AssetUpdateFields{
		Name:          req.Name,
		Type:          req.Type,
		PurchaseValue: req.PurchaseValue,
		CurrentValue:  req.CurrentValue,
		Description:   req.Description,
	}
	if req.PurchaseDate != nil {
		parsed, parseErr := parseDate(*req.PurchaseDate)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid purchase_date, use YYYY-MM-DD"))
			return
		}
		fields.PurchaseDate = &parsed
	}

	asset, err := h.assetService.UpdateAsset(c.Request.Context(), userID, assetID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "UPDATE_ASSET", "asset", assetID, c.ClientIP(), nil)
	h.invalidator.Invalidate(c.Request.Context(), userID)

	c.JSON(http.StatusOK, gin.H{"asset": asset})
}

// DeleteAsset handles deleting an asset
// @Summary     Delete asset
// @Tags        assets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Asset ID"
// @Success     200 {object} map[string]string "Asset deleted"
// @Failure     400 {object} ErrorResponse "Invalid asset ID"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Router      /assets/{id} [delete]
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	assetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.assetService.DeleteAsset(c.Request.Context(), userID, assetID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "DELETE_ASSET", "asset", assetID, c.ClientIP(), nil)
	h.invalidator.Invalidate(c.Request.Context(), userID)

	c.JSON(http.StatusOK, gin.H{"message": "Asset deleted"})
}
