package dto

type NLUQuery struct {
	SessionID    string
	Text         string
	LanguageCode string
}

type NLUResult struct {
	FulfillmentText string
	IntentName      string
}

type DetectIntentRequest struct {
	QueryInput QueryInput `json:"queryInput"`
}

type QueryInput struct {
	Text TextInput `json:"text"`
}

type TextInput struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode"`
}

type DetectIntentResponse struct {
	ResponseID  string      `json:"responseId"`
	QueryResult QueryResult `json:"queryResult"`
}

type QueryResult struct {
	QueryText       string `json:"queryText"`
	FulfillmentText string `json:"fulfillmentText"`
	LanguageCode    string `json:"languageCode"`
	Intent          Intent `json:"intent"`
}

type Intent struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}
