package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	productUsecases "vechnost/internal/application/product/usecases"
	"vechnost/internal/shared/logger"
	"vechnost/internal/shared/utils"
)

type ProductHandler struct {
	listProductsUC      *productUsecases.ListProductsUseCase
	createPaymentLinkUC *productUsecases.CreatePaymentLinkUseCase
	logger              logger.Interface
}

func NewProductHandler(
	listProductsUC *productUsecases.ListProductsUseCase,
	createPaymentLinkUC *productUsecases.CreatePaymentLinkUseCase,
	logger logger.Interface,
) *ProductHandler {
	return &ProductHandler{
		listProductsUC:      listProductsUC,
		createPaymentLinkUC: createPaymentLinkUC,
		logger:              logger,
	}
}

// ListProducts returns the locally mirrored product catalog.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.listProductsUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "products listed", products)
}

type CreatePaymentLinkRequest struct {
	TelegramUserID int64 `json:"telegram_user_id" binding:"required"`
	ProductID      int64 `json:"product_id" binding:"required"`
}

// CreatePaymentLink asks the provider for a checkout URL for one product.
func (h *ProductHandler) CreatePaymentLink(c *gin.Context) {
	var req CreatePaymentLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("failed to bind payment link request", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	link, err := h.createPaymentLinkUC.Execute(c.Request.Context(), productUsecases.CreatePaymentLinkCommand{
		TelegramUserID: req.TelegramUserID,
		ProductID:      req.ProductID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "payment link created", link)
}
