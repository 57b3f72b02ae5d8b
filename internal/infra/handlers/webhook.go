package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	Iservices "dialogflow-relay/internal/domain/interfaces/services"
	"dialogflow-relay/internal/infra/logger"
	"dialogflow-relay/internal/infra/payload"

	"github.com/sirupsen/logrus"
)

const HomeMessage = "WhatsApp Dialogflow relay is running!"

// maxWebhookBody bounds an inbound body. Larger bodies carry no messages.
const maxWebhookBody = 1 << 20

type WebhookHandlers struct {
	Logger       *logger.Logger
	Extractor    *payload.Extractor
	RelayService Iservices.IRelayService
}

func NewWebhookHandlers(logger *logger.Logger, extractor *payload.Extractor, relayService Iservices.IRelayService) *WebhookHandlers {
	return &WebhookHandlers{Logger: logger, Extractor: extractor, RelayService: relayService}
}

// Webhook receives one UltraMsg webhook call and relays every chat message
// it carries.
//
// HTTP Status Codes:
//   - 200 OK: every envelope was answered or intentionally skipped, including
//     payloads that carry no message at all, are not valid JSON or exceed
//     the body size limit.
//   - 500 Internal Server Error: Dialogflow or the UltraMsg send endpoint
//     failed. The body is the generic status text only.
func (th *WebhookHandlers) Webhook(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		th.Logger.Warn("Webhook body exceeds size limit, ignoring", logrus.Fields{"limit": tooLarge.Limit})
		w.WriteHeader(http.StatusOK)
		return
	}
	if err != nil {
		th.Logger.Error(fmt.Sprintf("Failed to read webhook body: %s", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	th.Logger.Debug("Webhook received from UltraMsg", logrus.Fields{"body": string(raw)})

	envelopes := th.Extractor.Extract(raw)
	if len(envelopes) == 0 {
		th.Logger.Info("Webhook carries no messages", logrus.Fields{"root": th.Extractor.Mapping().Root})
		w.WriteHeader(http.StatusOK)
		return
	}

	report, err := th.RelayService.Relay(r.Context(), envelopes)
	if err != nil {
		th.Logger.Error(fmt.Sprintf("Failed to relay webhook messages: %s", err.Error()), logrus.Fields{
			"received": report.Received,
			"replied":  report.Replied,
		})
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	th.Logger.Info("Webhook event processed successfully.", logrus.Fields{
		"received": report.Received,
		"skipped":  report.Skipped,
		"replied":  report.Replied,
		"empty":    report.Empty,
	})
	w.WriteHeader(http.StatusOK)
}

func (th *WebhookHandlers) Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(HomeMessage))
}
