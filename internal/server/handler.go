// ABOUTME: Command decoding, validation and reply helpers for the control socket
// ABOUTME: Replies use the <command>_result envelope with success and data or error
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance for request validation
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Use JSON tag names in error messages instead of struct field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})
}

// WSCommand is a command sent by a control client
type WSCommand struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Result is the reply to a command
type Result struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   any    `json:"error,omitempty"`
}

// FieldError describes one invalid request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// decodeAndValidate decodes JSON and validates the struct. It returns false
// when an error reply was already sent.
func decodeAndValidate[T any](cmd WSCommand, send chan<- any, data *T) bool {
	if len(cmd.Data) == 0 {
		cmd.Data = json.RawMessage("{}")
	}
	if err := json.Unmarshal(cmd.Data, data); err != nil {
		sendError(send, cmd.Type, fmt.Errorf("invalid JSON: %w", err))
		return false
	}

	if err := validate.Struct(data); err != nil {
		sendValidationErrors(send, cmd.Type, err)
		return false
	}

	return true
}

// handleCommand decodes, validates and runs a command, replying with its result
func handleCommand[T any](cmd WSCommand, send chan<- any, process func(*T) (any, error)) {
	var data T
	if !decodeAndValidate(cmd, send, &data) {
		return
	}

	result, err := process(&data)
	if err != nil {
		sendError(send, cmd.Type, err)
		return
	}

	sendSuccess(send, cmd.Type, result)
}

func sendSuccess(send chan<- any, cmdType string, data any) {
	trySend(send, cmdType, Result{
		Type:    cmdType + "_result",
		Success: true,
		Data:    data,
	})
}

func sendError(send chan<- any, cmdType string, err error) {
	trySend(send, cmdType, Result{
		Type:    cmdType + "_result",
		Success: false,
		Error:   err.Error(),
	})
}

func sendValidationErrors(send chan<- any, cmdType string, err error) {
	var fields []FieldError

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			fields = append(fields, FieldError{
				Field:   e.Field(),
				Message: formatValidationMessage(e),
			})
		}
	} else {
		fields = append(fields, FieldError{Message: err.Error()})
	}

	trySend(send, cmdType, Result{
		Type:    cmdType + "_result",
		Success: false,
		Error:   fields,
	})
}

// trySend attempts to send a message, logging a warning if the channel is full
func trySend(send chan<- any, cmdType string, msg any) {
	select {
	case send <- msg:
	default:
		log.Printf("Failed to send %s reply: client send buffer full", cmdType)
	}
}

// formatValidationMessage creates a human-readable message from a validator error
func formatValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", e.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	default:
		return fmt.Sprintf("failed validation '%s'", e.Tag())
	}
}
