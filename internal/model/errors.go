package model

import (
	"errors"
	"fmt"
)

// UnknownCommandError is returned for a command name with no handler.
type UnknownCommandError struct {
	Command string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("Unknown command %s.", e.Command)
}

// InvalidArgumentError reports an argument that could not be parsed.
type InvalidArgumentError struct {
	Argument string
	Usage    string
}

func (e *InvalidArgumentError) Error() string {
	if e.Usage == "" {
		return fmt.Sprintf("Invalid argument %s.", e.Argument)
	}
	return fmt.Sprintf("Invalid argument. Usage: %s", e.Usage)
}

// UnknownRoleError is returned when a role name does not exist in the guild.
type UnknownRoleError struct {
	Role string
}

func (e *UnknownRoleError) Error() string {
	return fmt.Sprintf("Invalid role %s", e.Role)
}

// UnknownMessageError is returned when a message id has no reaction-role entry.
type UnknownMessageError struct {
	MessageID string
}

func (e *UnknownMessageError) Error() string {
	return "Invalid message ID."
}

// TransportError wraps a failed call to the chat service.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// PersistenceError wraps a failed flush of durable state.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsUserError reports whether err was caused by bad user input and should be
// shown back to the user rather than logged as a failure.
func IsUserError(err error) bool {
	var (
		unknownCommand *UnknownCommandError
		invalidArg     *InvalidArgumentError
		unknownRole    *UnknownRoleError
		unknownMessage *UnknownMessageError
	)
	return errors.As(err, &unknownCommand) ||
		errors.As(err, &invalidArg) ||
		errors.As(err, &unknownRole) ||
		errors.As(err, &unknownMessage)
}
