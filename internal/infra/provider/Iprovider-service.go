package provider

import (
	"context"

	"dialogflow-relay/internal/domain/dto"
)

type IWhatsAppProvider interface {
	SendTextMessage(ctx context.Context, message dto.OutboundMessage) error
}
