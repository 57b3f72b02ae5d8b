package dto

type OutboundMessage struct {
	To   string
	Body string
}

// SendMessageResponse is the UltraMsg reply to messages/chat. Rejections can
// arrive with a 2xx status and a populated Error.
type SendMessageResponse struct {
	Sent    string `json:"sent"`
	Message string `json:"message"`
	ID      any    `json:"id"`
	Error   any    `json:"error"`
}
