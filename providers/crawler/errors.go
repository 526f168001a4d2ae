package crawler

import (
	"errors"
	"fmt"
)

// Op names the step of an invocation that failed.
type Op string

const (
	OpOpen  Op = "open"
	OpFetch Op = "fetch"
)

// FetchError is the single failure category of a crawl: anything that went
// wrong while acquiring the session or fetching the page.
//
// Error returns only the cause's message, so the text shown to the user does
// not depend on where in the pipeline the failure was raised.
type FetchError struct {
	Op  Op
	URL string
	Err error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s failed", e.Op)
	}
	return e.Err.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Wrap returns err as a *FetchError for op and url. A nil err yields nil and
// an error that already is a FetchError is returned unchanged.
func Wrap(op Op, url string, err error) error {
	if err == nil {
		return nil
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return err
	}
	return &FetchError{Op: op, URL: url, Err: err}
}

// InvalidURL builds an error wrapping [ErrInvalidURL] whose message is reason.
func InvalidURL(reason string) error {
	return &reasonError{sentinel: ErrInvalidURL, reason: reason}
}

// Message returns the text reported to the user for err: the innermost
// FetchError's cause message, or err.Error() for any other error.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var fe *FetchError
	if errors.As(err, &fe) && fe.Err != nil {
		return fe.Err.Error()
	}
	return err.Error()
}

type reasonError struct {
	sentinel error
	reason   string
}

func (e *reasonError) Error() string { return e.reason }

func (e *reasonError) Is(target error) bool { return target == e.sentinel }
