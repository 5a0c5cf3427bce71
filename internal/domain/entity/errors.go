package entity

import (
	"fmt"
)

// Details reported to the caller. The host runtime displays them verbatim.
const (
	DetailRequestFailed      = "HTTP Request Failed"
	DetailUnauthorized       = "Unauthorized: The provided API key is invalid."
	DetailSearchLimitReached = "Search Limit Reached"
	DetailUnexpectedStatus   = "Unexpected HTTP Status Received"
	DetailUnrecognized       = "Unrecognized Shodan Response"
	DetailGeneric            = "Error: Something with the Request Failed"
)

// LookupError is a hard failure for one entity. Any LookupError fails the whole batch.
type LookupError struct {
	Detail string `json:"detail"`
	Status int    `json:"status,omitempty"`
	Body   string `json:"body,omitempty"`
	Err    error  `json:"-"`
}

func (e *LookupError) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = DetailGeneric
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// LimitNotice is returned by a retry while the local limiter is still dropping jobs.
// It is distinguished from a LookupError so the UI can show it as a notice.
type LimitNotice struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// NewLimitNotice builds the notice shown when a retry hits the limiter again
func NewLimitNotice() *LimitNotice {
	return &LimitNotice{Title: SearchLimitReachedTag, Message: "Search Limit Still in Effect"}
}

func (n *LimitNotice) Error() string {
	return n.Title + ": " + n.Message
}
