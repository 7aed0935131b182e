// Package models provides the core data structures for handling relay requests and responses.
package models

import "net/http"

// Request represents an inbound relay request, independent of the runtime that received it.
type Request struct {
	Method  string
	Query   map[string]string
	Body    []byte
	Headers map[string]string
}

// IsReadStyle reports whether the prompt is expected in the query string rather than the body.
func (r Request) IsReadStyle() bool {
	return r.Method == http.MethodGet
}

// Response defines the structure for an HTTP response containing a body, headers, and a status code.
type Response struct {
	Body       string
	Headers    map[string]string
	StatusCode int
}

// TextMessage is the DingTalk robot payload for a plain text message.
type TextMessage struct {
	MsgType string      `json:"msgtype"`
	Text    TextContent `json:"text"`
}

// TextContent holds the content of a TextMessage.
type TextContent struct {
	Content string `json:"content"`
}

// NewTextMessage wraps content into a DingTalk text message.
func NewTextMessage(content string) TextMessage {
	return TextMessage{MsgType: "text", Text: TextContent{Content: content}}
}

// WebhookResult is the acknowledgement returned by the DingTalk robot webhook.
type WebhookResult struct {
	ErrCode *int   `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

// Answer is the body of a successful relay response.
type Answer struct {
	OK     bool   `json:"ok"`
	Answer string `json:"answer"`
}

// Failure is the body of a failed relay response.
type Failure struct {
	Error  string   `json:"error"`
	Need   []string `json:"need,omitempty"`
	Detail string   `json:"detail,omitempty"`
}
