package wire

import "github.com/and161185/chatcore/internal/model"

// Reply is one outbound Session frame: a response on success, an error
// otherwise. Status is zero when Error is set.
type Reply struct {
	model.Response
	Error *ReplyError `json:"error,omitempty"`
}

// ReplyError carries a stable code (see errs.Code) and a human-readable message.
type ReplyError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// OK wraps a successful response.
func OK(resp *model.Response) *Reply {
	return &Reply{Response: *resp}
}

// Fail builds an error frame.
func Fail(code, message string) *Reply {
	return &Reply{Error: &ReplyError{Code: code, Message: message}}
}
