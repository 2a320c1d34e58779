package booking

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotLoggedIn = errors.New("not logged in")
	ErrForbidden   = errors.New("action not allowed for current role")
	ErrUnavailable = errors.New("remote api unavailable")
	ErrInvalidID   = errors.New("invalid id")
)

// RemoteError is a non-2xx answer from the remote API.
type RemoteError struct {
	StatusCode int
	Status     string
	Messages   []string
}

func IsRemoteError(err error) *RemoteError {
	if err == nil {
		return nil
	}

	var remoteError *RemoteError

	if errors.As(err, &remoteError) {
		return remoteError
	}

	return nil
}

func (e *RemoteError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("remote api responded %d %s", e.StatusCode, e.Status)
	}

	return fmt.Sprintf("remote api responded %d: %s", e.StatusCode, strings.Join(e.Messages, "; "))
}

// Message is the text shown to the user in place of the failed view.
func (e *RemoteError) Message() string {
	if len(e.Messages) > 0 {
		return e.Messages[0]
	}

	return "Something went wrong. Please try again."
}

type InputError struct {
	fields map[string][]string
}

func newInputError() *InputError {
	return &InputError{
		fields: make(map[string][]string),
	}
}

func IsInputError(err error) *InputError {
	if err == nil {
		return nil
	}

	var inputError *InputError

	if errors.As(err, &inputError) {
		return inputError
	}

	return nil
}

func (ie *InputError) fieldsCount() int {
	return len(ie.fields)
}

func (ie *InputError) addError(field, msg string) {
	ie.fields[field] = append(ie.fields[field], msg)
}

func (ie *InputError) errOrNil() error {
	if ie.fieldsCount() > 0 {
		return ie
	}

	return nil
}

func (ie *InputError) Error() string {
	return fmt.Sprintf("%+v", ie.fields)
}

func (ie *InputError) Fields() map[string][]string {
	return ie.fields
}
