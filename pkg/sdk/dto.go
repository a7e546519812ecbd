package sdk

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ethanbaker/api/pkg/api_types"
)

// ApiResponse represents a standard API response structure
type ApiResponse[T any] struct {
	Status  api_types.StatusType `json:"status"`          // Status message
	Code    int                  `json:"code"`            // Status code
	Message string               `json:"message"`         // Human-readable message
	Data    T                    `json:"data,omitempty"`  // Optional data field for successful responses
	Error   any                  `json:"error,omitempty"` // Optional errors field for error responses
}

// AsGinResponse converts the ApiResponse to a format suitable for Gin framework
func (r ApiResponse[T]) AsGinResponse() (int, any) {
	return r.Code, r
}

// AsJSON converts the ApiResponse to a JSON string
func (r ApiResponse[T]) AsJSON() (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func NewSuccess(message string) ApiResponse[any] {
	return ApiResponse[any]{
		Status:  api_types.StatusSuccess,
		Code:    http.StatusOK,
		Message: message,
	}
}

func NewSuccessResponse[T any](message string, data T) ApiResponse[T] {
	return ApiResponse[T]{
		Status:  api_types.StatusSuccess,
		Code:    http.StatusOK,
		Message: message,
		Data:    data,
	}
}

// NewErrorResponse builds an error envelope. Errors are rendered as their
// message text since error values do not marshal to JSON
func NewErrorResponse(code int, message string, err any) ApiResponse[any] {
	if e, ok := err.(error); ok {
		err = e.Error()
	}

	return ApiResponse[any]{
		Status:  api_types.StatusError,
		Code:    code,
		Message: message,
		Error:   err,
	}
}

/** Requests */

// Intake carries the participant's answers from the intake screen. It binds
// from both JSON bodies and HTML forms
type Intake struct {
	PhoneModel      string `json:"modelo_celular" form:"modelo_celular" binding:"required"`
	OperatingSystem string `json:"sistema_operacional" form:"sistema_operacional" binding:"required,oneof=Android iOS"`
	OSVersion       string `json:"versao_so" form:"versao_so" binding:"required"`
	OriginState     string `json:"estado_origem" form:"estado_origem" binding:"required,len=2"`
	Sex             string `json:"sexo" form:"sexo" binding:"required,oneof=M F"`
	Age             *int   `json:"idade" form:"idade" binding:"required,min=0,max=120"`
}

// RoundRequest submits the transcription of the prompt on screen
type RoundRequest struct {
	Transcription string `json:"transcription" form:"transcription"`
}

/** Responses */

// Round is one recorded transcription
type Round struct {
	Round             int       `json:"round"`
	ModelText         string    `json:"model_text"`
	UserTranscription string    `json:"user_transcription"`
	SpeechSpeed       string    `json:"speech_speed"`
	Timestamp         time.Time `json:"timestamp"`
}

// SessionState is the state of a running session
type SessionState struct {
	ID         string  `json:"id"`
	Page       string  `json:"page"`
	FormData   Intake  `json:"form_data"`
	Prompt     string  `json:"prompt"`
	Speed      string  `json:"speed"`
	SpeedLabel string  `json:"speed_label"`
	Rounds     []Round `json:"rounds"`
}

// Receipt confirms that a session was uploaded
type Receipt struct {
	SessionID   string    `json:"session_id"`
	ObjectKey   string    `json:"object_key"`
	Backend     string    `json:"backend"`
	Bucket      string    `json:"bucket"`
	RoundCount  int       `json:"round_count"`
	CompletedAt time.Time `json:"completed_at"`
}

// ReceiptList is a page of receipts, newest first
type ReceiptList struct {
	Receipts []Receipt `json:"receipts"`
	Count    int64     `json:"count"` // Total receipts in the ledger
}

// HealthStatus reports whether the service can run trials
type HealthStatus struct {
	Status         string `json:"status"`
	CatalogSize    int    `json:"catalog_size"`
	CatalogError   string `json:"catalog_error,omitempty"`
	Backend        string `json:"backend"`
	Bucket         string `json:"bucket"`
	ActiveSessions int    `json:"active_sessions"`
}
