package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"dialogflow-relay/internal/domain/apperrors"
	"dialogflow-relay/internal/domain/dto"
	"dialogflow-relay/internal/infra/logger"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/jwt"
)

const (
	dialogflowService = "dialogflow"

	GoogleTokenURL = "https://oauth2.googleapis.com/token"
)

var dialogflowScopes = []string{
	"https://www.googleapis.com/auth/cloud-platform",
	"https://www.googleapis.com/auth/dialogflow",
}

// NewDialogflowHTTPClient returns a client that signs every request with an
// access token minted from the service-account email and PEM private key.
// Tokens are cached and refreshed by the oauth2 token source. base supplies
// the transport and timeout.
func NewDialogflowHTTPClient(ctx context.Context, base *http.Client, clientEmail, privateKey, tokenURL string) *http.Client {
	conf := &jwt.Config{
		Email:      clientEmail,
		PrivateKey: []byte(privateKey),
		Scopes:     dialogflowScopes,
		TokenURL:   tokenURL,
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	client := conf.Client(ctx)
	client.Timeout = base.Timeout
	return client
}

type DialogflowService struct {
	Logger     *logger.Logger
	HttpClient *http.Client
	BaseURL    string
	ProjectID  string
}

func NewDialogflowService(logger *logger.Logger, httpClient *http.Client, baseURL, projectID string) *DialogflowService {
	return &DialogflowService{
		Logger:     logger,
		HttpClient: httpClient,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		ProjectID:  projectID,
	}
}

// DetectIntent sends one text query to the agent's detectIntent endpoint in
// the session named by query.SessionID. An absent fulfillmentText yields an
// empty result, not an error.
func (th *DialogflowService) DetectIntent(ctx context.Context, query dto.NLUQuery) (dto.NLUResult, error) {
	if query.SessionID == "" || query.Text == "" {
		return dto.NLUResult{}, fmt.Errorf("session id and query text cannot be empty")
	}

	payload := dto.DetectIntentRequest{
		QueryInput: dto.QueryInput{
			Text: dto.TextInput{
				Text:         query.Text,
				LanguageCode: query.LanguageCode,
			},
		},
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return dto.NLUResult{}, fmt.Errorf("failed to marshal payload: %w", err)
	}

	apiURL := fmt.Sprintf("%s/v2/projects/%s/agent/sessions/%s:detectIntent",
		th.BaseURL, url.PathEscape(th.ProjectID), url.PathEscape(query.SessionID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return dto.NLUResult{}, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := th.HttpClient.Do(req)
	if err != nil {
		th.Logger.Error(fmt.Sprintf("Failed to send detectIntent request: %s", err.Error()))
		return dto.NLUResult{}, apperrors.NewUpstreamError(dialogflowService, 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		th.Logger.Error(fmt.Sprintf("Failed to read response body: %s", err.Error()))
		return dto.NLUResult{}, apperrors.NewUpstreamError(dialogflowService, resp.StatusCode, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		th.Logger.Error("Dialogflow returned an error", logrus.Fields{"status": resp.StatusCode, "response_body": string(body)})
		return dto.NLUResult{}, apperrors.NewUpstreamError(dialogflowService, resp.StatusCode, fmt.Errorf("detectIntent failed"))
	}

	var intentResponse dto.DetectIntentResponse
	if err := json.Unmarshal(body, &intentResponse); err != nil {
		th.Logger.Error(fmt.Sprintf("Failed to unmarshal response body: %s", err.Error()))
		return dto.NLUResult{}, apperrors.NewUpstreamError(dialogflowService, 0, fmt.Errorf("failed to unmarshal response body: %w", err))
	}

	th.Logger.Debug("Dialogflow query result", logrus.Fields{
		"session":  query.SessionID,
		"intent":   intentResponse.QueryResult.Intent.DisplayName,
		"response": intentResponse.QueryResult.FulfillmentText,
	})

	return dto.NLUResult{
		FulfillmentText: intentResponse.QueryResult.FulfillmentText,
		IntentName:      intentResponse.QueryResult.Intent.DisplayName,
	}, nil
}
