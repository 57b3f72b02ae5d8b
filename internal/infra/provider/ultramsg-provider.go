package provider

import (
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
)

const ultraMsgService = "ultramsg"

type UltraMsgProvider struct {
	Logger     *logger.Logger
	HttpClient *http.Client
	BaseURL    string
	InstanceID string
	Token      string
}

func NewUltraMsgProvider(logger *logger.Logger, httpClient *http.Client, baseURL, instanceID, token string) *UltraMsgProvider {
	return &UltraMsgProvider{
		Logger:     logger,
		HttpClient: httpClient,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		InstanceID: instanceID,
		Token:      token,
	}
}

// SendTextMessage posts a chat message through the UltraMsg instance.
//
// The request is form-encoded with the instance token, the destination id
// (a contact "...@c.us" or a group "...@g.us") and the text body. A non-2xx
// status, an unreadable reply or a reply carrying an "error" field are all
// returned as *apperrors.UpstreamError.
func (th *UltraMsgProvider) SendTextMessage(ctx context.Context, message dto.OutboundMessage) error {
	if message.To == "" || message.Body == "" {
		return fmt.Errorf("recipient (to) and message cannot be empty")
	}

	data := url.Values{}
	data.Set("token", th.Token)
	data.Set("to", message.To)
	data.Set("body", message.Body)

	apiURL := fmt.Sprintf("%s/%s/messages/chat", th.BaseURL, th.InstanceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	res, err := th.HttpClient.Do(req)
	if err != nil {
		th.Logger.Error(fmt.Sprintf("HTTP request failed %v", err))
		return apperrors.NewUpstreamError(ultraMsgService, 0, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		th.Logger.Error(fmt.Sprintf("Failed to read response body %v", err))
		return apperrors.NewUpstreamError(ultraMsgService, res.StatusCode, err)
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		th.Logger.Error("Unexpected HTTP status from UltraMsg", logrus.Fields{"status": res.Status, "response_body": string(body)})
		return apperrors.NewUpstreamError(ultraMsgService, res.StatusCode, fmt.Errorf("unexpected HTTP status: %s", res.Status))
	}

	var sendResponse dto.SendMessageResponse
	if err := json.Unmarshal(body, &sendResponse); err != nil {
		th.Logger.Error("Failed to decode UltraMsg response", logrus.Fields{"response_body": string(body)})
		return apperrors.NewUpstreamError(ultraMsgService, 0, fmt.Errorf("failed to decode response: %w", err))
	}

	if sendResponse.Error != nil {
		th.Logger.Error("UltraMsg rejected the message", logrus.Fields{"error": sendResponse.Error})
		return apperrors.NewUpstreamError(ultraMsgService, 0, fmt.Errorf("message rejected: %v", sendResponse.Error))
	}

	th.Logger.Info("Message sent successfully", logrus.Fields{"to": message.To, "status": res.Status, "response_body": string(body)})
	return nil
}
