package errors

import (
	"fmt"
)

type (
	PublishError struct {
		Err error
	}
	NotifierFoundNilArgument struct {
		Msg string
	}
)

func (e *PublishError) Error() string {
	return fmt.Sprintf("%s: could not publish", e.Err.Error())
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

func (e *NotifierFoundNilArgument) Error() string {
	return e.Msg
}
