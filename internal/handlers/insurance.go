package handlers

import (
	"errors"
	"net/http"

	"car_chronicle/internal/service"

	"github.com/gin-gonic/gin"
)

// PurchaseRequest is the exported model for Swagger docs of the purchase
// payload. The premium here is what the caller offers; the stored premium
// is always the system default.
type PurchaseRequest struct {
	Premium int64 `json:"premium" example:"100"`
}

type purchaseRequest struct {
	Premium int64 `json:"premium"`
}

// @Summary      Caller's insurance status
// @Tags         insurance
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "premium_paying, covered"
// @Router       /api/v1/insurance/status [get]
// @Security     BearerAuth
func (h *Handler) insuranceStatus(c *gin.Context) {
	ctx := c.Request.Context()
	account := caller(c)

	covered, err := h.services.Insurance.HasActiveCoverage(ctx, account)
	if err != nil {
		h.respondDomainError(c, "insurance_status_failed", err, "account", account)
		return
	}

	premiumPaying, err := h.services.Insurance.IsPremiumPaying(ctx, account)
	if err != nil && !errors.Is(err, service.ErrNoInsurance) {
		h.respondDomainError(c, "insurance_status_failed", err, "account", account)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account":        account,
		"premium_paying": premiumPaying,
		"covered":        covered,
	})
}

// @Summary      Purchase insurance coverage
// @Description  Stores the default premium regardless of the offered amount; the offered amount only appears in the emitted notification.
// @Tags         insurance
// @Accept       json
// @Produce      json
// @Param        body  body   PurchaseRequest  true  "Offered premium"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/insurance/purchase [post]
// @Security     BearerAuth
func (h *Handler) purchaseInsurance(c *gin.Context) {
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	account := caller(c)
	if err := h.services.Insurance.Purchase(c.Request.Context(), account, req.Premium); err != nil {
		h.respondDomainError(c, "purchase_failed", err, "account", account)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "purchased",
		"account": account,
	})
}

// @Summary      File an insurance claim
// @Description  Pays out the stored premium and resets coverage to inactive.
// @Tags         insurance
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, paid"
// @Failure      403  {object}  map[string]string
// @Router       /api/v1/insurance/claim [post]
// @Security     BearerAuth
func (h *Handler) fileClaim(c *gin.Context) {
	account := caller(c)
	paid, err := h.services.Insurance.FileClaim(c.Request.Context(), account)
	if err != nil {
		h.respondDomainError(c, "claim_failed", err, "account", account)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "claim_filed",
		"account": account,
		"paid":    paid,
	})
}
