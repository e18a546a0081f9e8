package bus

import "encoding/json"

// Request/reply envelopes exchanged over Redis lists. Every request carries
// a correlation id and the name of the private reply list the caller blocks
// on; the reply echoes the id so a stray message can be detected.

type requestEnvelope struct {
	ID      string          `json:"id"`
	ReplyTo string          `json:"reply_to"`
	Data    json.RawMessage `json:"data"`
}

type replyEnvelope struct {
	ID    string          `json:"id"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error *replyError     `json:"error,omitempty"`
}

type replyError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func queueKey(subject string) string {
	return "rpc:" + subject
}

func replyKey(id string) string {
	return "rpc:reply:" + id
}
