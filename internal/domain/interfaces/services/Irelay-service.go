package Iservices

import (
	"context"

	"dialogflow-relay/internal/domain/dto"
)

type IRelayService interface {
	Relay(ctx context.Context, envelopes []dto.Envelope) (dto.RelayReport, error)
}
