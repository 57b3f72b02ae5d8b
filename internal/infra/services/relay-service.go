package services

import (
	"context"
	"fmt"

	"dialogflow-relay/internal/domain/dto"
	Iservices "dialogflow-relay/internal/domain/interfaces/services"
	"dialogflow-relay/internal/infra/logger"
	"dialogflow-relay/internal/infra/metrics"
	"dialogflow-relay/internal/infra/provider"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type RelayService struct {
	Logger           *logger.Logger
	NLUService       Iservices.INLUService
	WhatsAppProvider provider.IWhatsAppProvider
	ChatMarker       string
	LanguageCode     string

	// NewSessionID yields the NLU session for one message. Sessions are
	// never reused.
	NewSessionID func() string
}

func NewRelayService(logger *logger.Logger, nluService Iservices.INLUService, whatsAppProvider provider.IWhatsAppProvider, chatMarker, languageCode string) *RelayService {
	return &RelayService{
		Logger:           logger,
		NLUService:       nluService,
		WhatsAppProvider: whatsAppProvider,
		ChatMarker:       chatMarker,
		LanguageCode:     languageCode,
		NewSessionID:     uuid.NewString,
	}
}

// Relay answers each envelope in order. Non-chat, empty and self-sent
// envelopes are skipped. The first upstream failure stops processing and is
// returned; envelopes already answered stay answered.
func (th *RelayService) Relay(ctx context.Context, envelopes []dto.Envelope) (dto.RelayReport, error) {
	report := dto.RelayReport{Received: len(envelopes)}

	for _, envelope := range envelopes {
		fields := logrus.Fields{"from": envelope.From, "type": envelope.Type, "message_id": envelope.ID}

		if !envelope.IsChat(th.ChatMarker) || !envelope.HasBody() {
			th.Logger.Info("Not a valid chat message or empty body, skipping", fields)
			metrics.RecordEnvelope("skipped")
			report.Skipped++
			continue
		}

		if envelope.FromMe {
			th.Logger.Info("Ignoring message sent by the bot itself", fields)
			metrics.RecordEnvelope("skipped")
			report.Skipped++
			continue
		}

		th.Logger.Info(fmt.Sprintf("Message from %s: %q", envelope.From, envelope.Body), fields)

		result, err := th.NLUService.DetectIntent(ctx, dto.NLUQuery{
			SessionID:    th.NewSessionID(),
			Text:         envelope.Body,
			LanguageCode: th.LanguageCode,
		})
		if err != nil {
			metrics.RecordIntegrationError(dialogflowService)
			return report, fmt.Errorf("detect intent for %s: %w", envelope.From, err)
		}

		if result.FulfillmentText == "" {
			th.Logger.Info("Dialogflow returned no fulfillment text, nothing to send", fields)
			metrics.RecordEnvelope("empty")
			report.Empty++
			continue
		}

		if err := th.WhatsAppProvider.SendTextMessage(ctx, dto.OutboundMessage{
			To:   envelope.From,
			Body: result.FulfillmentText,
		}); err != nil {
			metrics.RecordIntegrationError("ultramsg")
			return report, fmt.Errorf("send reply to %s: %w", envelope.From, err)
		}

		th.Logger.Info(fmt.Sprintf("Reply sent to %s", envelope.From), fields)
		metrics.RecordEnvelope("replied")
		report.Replied++
	}

	return report, nil
}
