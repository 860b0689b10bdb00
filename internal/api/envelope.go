package api

import (
	"encoding/json"
	"net/http"
	"time"
)

// APIVersion is the version segment of the REST base path.
const APIVersion = "v1"

// BasePath is the fixed prefix every REST route lives under.
const BasePath = "/api/" + APIVersion

// Stable machine-readable error codes clients can branch on.
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeToolNotFound     = "TOOL_NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeNotFound         = "NOT_FOUND"
	CodeExecutionError   = "TOOL_EXECUTION_ERROR"
)

// Response is the uniform envelope every REST response is wrapped in.
// Exactly one of Data and Error is set.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    Meta       `json:"meta"`
}

// ErrorInfo carries a stable code plus a human-readable message.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Meta is the envelope metadata block. ExecutionTimeMs is set only on tool
// execution responses.
type Meta struct {
	Version         string `json:"version"`
	Timestamp       string `json:"timestamp"`
	ExecutionTimeMs int64  `json:"executionTimeMs,omitempty"`
}

// ExecutionData is the Data payload of a successful tool execution.
type ExecutionData struct {
	Tool          string `json:"tool"`
	Result        any    `json:"result"`
	ExecutionTime int64  `json:"executionTime"`
}

// DiscoveryData is the Data payload of the tool discovery endpoint.
type DiscoveryData struct {
	Tools []ToolSummary `json:"tools"`
	Total int           `json:"total"`
}

// ToolSummary is the discovery view of one registered tool.
type ToolSummary struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// newMeta builds the envelope metadata for the current instant.
func newMeta(executionMs int64) Meta {
	return Meta{
		Version:         APIVersion,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		ExecutionTimeMs: executionMs,
	}
}

// writeSuccess writes a success envelope.
func writeSuccess(w http.ResponseWriter, status int, data any, meta Meta) {
	writeEnvelope(w, status, Response{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

// writeError writes a failure envelope with the given code and message.
func writeError(w http.ResponseWriter, status int, code, message string, meta Meta) {
	writeEnvelope(w, status, Response{
		Success: false,
		Error:   &ErrorInfo{Code: code, Message: message},
		Meta:    meta,
	})
}

func writeEnvelope(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
