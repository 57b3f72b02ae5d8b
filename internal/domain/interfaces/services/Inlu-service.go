package Iservices

import (
	"context"

	"dialogflow-relay/internal/domain/dto"
)

type INLUService interface {
	DetectIntent(ctx context.Context, query dto.NLUQuery) (dto.NLUResult, error)
}
