package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	entitlementUsecases "vechnost/internal/application/entitlement/usecases"
	"vechnost/internal/shared/logger"
	"vechnost/internal/shared/utils"
)

type EntitlementHandler struct {
	checkAccessUC *entitlementUsecases.CheckAccessUseCase
	logger        logger.Interface
}

func NewEntitlementHandler(checkAccessUC *entitlementUsecases.CheckAccessUseCase, logger logger.Interface) *EntitlementHandler {
	return &EntitlementHandler{checkAccessUC: checkAccessUC, logger: logger}
}

// CheckAccess resolves whether the Telegram user currently has access.
func (h *EntitlementHandler) CheckAccess(c *gin.Context) {
	telegramUserID, err := strconv.ParseInt(c.Param("telegram_user_id"), 10, 64)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid telegram user ID")
		return
	}

	result, err := h.checkAccessUC.Execute(c.Request.Context(), entitlementUsecases.CheckAccessCommand{
		TelegramUserID: telegramUserID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "entitlement resolved", result)
}
