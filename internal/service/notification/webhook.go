package notification

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"gokon/pkg/logger"

	"github.com/gin-gonic/gin"
)

const SignatureHeader = "X-Line-Signature"

type WebhookHandler struct {
	service       *Service
	channelSecret string
	logger        logger.Logger
}

func NewWebhookHandler(service *Service, channelSecret string, logger logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		service:       service,
		channelSecret: channelSecret,
		logger:        logger,
	}
}

// VerifySignature checks the base64 HMAC-SHA256 of body under the channel
// secret. Without a secret nothing verifies.
func VerifySignature(channelSecret string, body []byte, signature string) bool {
	if channelSecret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(want), []byte(signature))
}

// Receive handles POST /webhooks/line
//
//	@Summary	LINE Messaging API webhook
//	@Tags		notifications
//	@Accept		json
//	@Produce	json
//	@Param		X-Line-Signature	header		string	true	"HMAC-SHA256 signature"
//	@Success	200					{object}	map[string]bool
//	@Failure	401					{object}	map[string]string
//	@Router		/webhooks/line [post]
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}
	if !VerifySignature(h.channelSecret, body, c.GetHeader(SignatureHeader)) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": ErrInvalidSignature.Error()})
		return
	}

	var payload WebhookBody
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook body"})
		return
	}

	// LINE redelivers on non-2xx, so per-event failures are only logged
	if err := h.service.HandleWebhook(c.Request.Context(), payload); err != nil {
		h.logger.Warn(c.Request.Context(), "line webhook partially applied", logger.Field{Key: "error", Value: err})
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
