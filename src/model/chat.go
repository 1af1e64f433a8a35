package model

import "time"

// ----------------------------------------------------
// ================ Request ================

// ChatRequest is the body of POST /api/chat. Message stays untyped so the
// handler can reject non-string payloads with the apology response.
type ChatRequest struct {
	Message any    `json:"message"`
	UserID  string `json:"userId,omitempty"`
}

// ----------------------------------------------------
// ================ Response ================

// ChatContext describes the situation a reply was produced in
type ChatContext struct {
	TimeOfDay          string `json:"time_of_day"`
	UserEmotionalState string `json:"user_emotional_state"`
	ConversationLength string `json:"conversation_length"`
}

// ChatResponse is returned by POST /api/chat
type ChatResponse struct {
	Response       string      `json:"response"`
	Timestamp      time.Time   `json:"timestamp"`
	UserID         string      `json:"userId"`
	Model          string      `json:"model"`
	Personality    string      `json:"personality"`
	Context        ChatContext `json:"context"`
	ConversationID string      `json:"conversationId"`
}

// ErrorResponse carries both a machine readable error and an in-character reply
type ErrorResponse struct {
	Error           string   `json:"error"`
	Response        string   `json:"response,omitempty"`
	AvailableRoutes []string `json:"availableRoutes,omitempty"`
}

// JournalEntry is one line of the global chat log
type JournalEntry struct {
	UserID         string       `json:"userId"`
	Message        string       `json:"message"`
	Timestamp      time.Time    `json:"timestamp"`
	Type           string       `json:"type"` // user, luna
	EmotionalState string       `json:"emotional_state,omitempty"`
	Context        *ChatContext `json:"context,omitempty"`
}

// HistoryResponse is returned by GET /api/history
type HistoryResponse struct {
	History []JournalEntry `json:"history"`
	Count   int            `json:"count"`
	UserID  string         `json:"userId"`
}

// PingResponse is returned by GET /api/ping, polled by the keep-alive pinger
type PingResponse struct {
	Pong      bool      `json:"pong"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    float64   `json:"uptime"`
	Luna      string    `json:"luna,omitempty"`
	Status    string    `json:"status,omitempty"`
}
