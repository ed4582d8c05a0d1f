// Package bridge implements the command channel between the desktop shell and
// the core systems. Requests and responses are newline-delimited JSON objects:
//
//	{"id": 1, "command": "getAgent", "args": {"id": "..."}}
//	{"id": 1, "result": {...}}
//	{"id": 1, "error": {"kind": "NotFound", "message": "agent not found"}}
//
// Commands are registered in groups and dispatched by name.
package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Error kinds reported to the shell.
const (
	KindNotFound         = "NotFound"
	KindConflict         = "Conflict"
	KindLockFailure      = "LockFailure"
	KindIOFailure        = "IOFailure"
	KindInvalidInput     = "InvalidInput"
	KindEmbeddingFailure = "EmbeddingFailure"
	KindInternal         = "Internal"
)

// ErrUnknownCommand is returned when a request names a command no group registered.
var ErrUnknownCommand = errors.New("unknown command")

// Request is a single command invocation read from the shell.
type Request struct {
	ID      json.RawMessage `json:"id"`
	Command string          `json:"command"`
	Args    json.RawMessage `json:"args,omitempty"`
}

// Response answers a Request with the same ID. Exactly one of Result or Error is set.
type Response struct {
	ID     json.RawMessage `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *ErrorBody      `json:"error,omitempty"`
}

// ErrorBody is the serialized form of a failed command.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Error is an error that already carries its bridge kind. Handlers return it
// for failures detected at the boundary, such as malformed arguments.
type Error struct {
	Kind string
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// InvalidInput wraps err as an InvalidInput bridge error.
func InvalidInput(err error) error {
	return &Error{Kind: KindInvalidInput, Err: err}
}

// Decode unmarshals command arguments into T. Absent arguments decode to the
// zero value. Decoding failures are reported as InvalidInput.
func Decode[T any](args json.RawMessage) (T, error) {
	var result T
	if len(args) == 0 || string(args) == "null" {
		return result, nil
	}
	if err := json.Unmarshal(args, &result); err != nil {
		return result, InvalidInput(fmt.Errorf("invalid args: %w", err))
	}
	return result, nil
}

func errorResponse(id json.RawMessage, kind string, err error) Response {
	return Response{
		ID:    id,
		Error: &ErrorBody{Kind: kind, Message: err.Error()},
	}
}
