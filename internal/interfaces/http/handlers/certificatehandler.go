package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	certificateUsecases "vechnost/internal/application/certificate/usecases"
	"vechnost/internal/shared/logger"
	"vechnost/internal/shared/utils"
)

type CertificateHandler struct {
	redeemUC *certificateUsecases.RedeemCertificateUseCase
	logger   logger.Interface
}

func NewCertificateHandler(redeemUC *certificateUsecases.RedeemCertificateUseCase, logger logger.Interface) *CertificateHandler {
	return &CertificateHandler{redeemUC: redeemUC, logger: logger}
}

type RedeemCertificateRequest struct {
	Code           string `json:"code" binding:"required"`
	TelegramUserID int64  `json:"telegram_user_id" binding:"required"`
	Username       string `json:"username"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
}

// Redeem consumes a one-time certificate for the given Telegram user.
// A used code yields 409 regardless of who redeemed it first.
func (h *CertificateHandler) Redeem(c *gin.Context) {
	var req RedeemCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("failed to bind redeem request", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	cmd := certificateUsecases.RedeemCertificateCommand{
		Code:           req.Code,
		TelegramUserID: req.TelegramUserID,
		Username:       req.Username,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
	}

	result, err := h.redeemUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "certificate redeemed", result)
}
