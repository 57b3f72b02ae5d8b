package dto

// Envelope is one inbound message event, already mapped from whichever key
// set the gateway integration uses.
type Envelope struct {
	ID     string
	Type   string
	Body   string
	From   string
	FromMe bool
}

func (e Envelope) IsChat(marker string) bool {
	return e.Type == marker
}

func (e Envelope) HasBody() bool {
	return e.Body != ""
}

// RelayReport counts what happened to the envelopes of one webhook call.
type RelayReport struct {
	Received int
	Skipped  int
	Replied  int
	Empty    int
}
