package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	paymentUsecases "vechnost/internal/application/payment/usecases"
	"vechnost/internal/shared/logger"
	"vechnost/internal/shared/utils"
)

// WebhookHandler receives provider webhook deliveries.
type WebhookHandler struct {
	applyWebhookUC *paymentUsecases.ApplyWebhookEventUseCase
	logger         logger.Interface
}

func NewWebhookHandler(applyWebhookUC *paymentUsecases.ApplyWebhookEventUseCase, logger logger.Interface) *WebhookHandler {
	return &WebhookHandler{applyWebhookUC: applyWebhookUC, logger: logger}
}

// WebhookResponse mirrors the acknowledgment shape the provider expects.
type WebhookResponse struct {
	OK        bool   `json:"ok"`
	Dup       bool   `json:"dup,omitempty"`
	PaymentID uint   `json:"payment_id,omitempty"`
	Message   string `json:"message,omitempty"`
}

// HandleTribute applies one Tribute webhook delivery. The raw body is
// passed through untouched: the signature and idempotency hash are both
// computed over the exact bytes received.
func (h *WebhookHandler) HandleTribute(c *gin.Context) {
	rawBody, err := c.GetRawData()
	if err != nil {
		h.logger.Warnw("failed to read webhook body", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "failed to read request body")
		return
	}

	cmd := paymentUsecases.ApplyWebhookCommand{
		Headers: c.Request.Header,
		RawBody: rawBody,
	}

	result, err := h.applyWebhookUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, WebhookResponse{
		OK:        true,
		Dup:       result.Duplicate,
		PaymentID: result.PaymentEventID,
		Message:   result.Message,
	})
}
