// Package request parses inbound envelopes into a canonical, typed request.
package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/and161185/chatcore/internal/errs"
	"github.com/and161185/chatcore/internal/model"
)

// Operation is the verb of a request.
type Operation int

const (
	Create Operation = iota + 1
	Read
	Update
	Delete
	Verify
)

var operationTokens = map[string]Operation{
	"CREATE": Create,
	"READ":   Read,
	"UPDATE": Update,
	"DELETE": Delete,
	"VERIFY": Verify,
}

func (o Operation) String() string {
	switch o {
	case Create:
		return "CREATE"
	case Read:
		return "READ"
	case Update:
		return "UPDATE"
	case Delete:
		return "DELETE"
	case Verify:
		return "VERIFY"
	default:
		return fmt.Sprintf("Operation(%d)", int(o))
	}
}

// Target is the entity kind a request acts on.
type Target int

const (
	Users Target = iota + 1
	Messages
	Conversations
)

var targetTokens = map[string]Target{
	"USERS":         Users,
	"MESSAGES":      Messages,
	"CONVERSATIONS": Conversations,
}

func (t Target) String() string {
	switch t {
	case Users:
		return "USERS"
	case Messages:
		return "MESSAGES"
	case Conversations:
		return "CONVERSATIONS"
	default:
		return fmt.Sprintf("Target(%d)", int(t))
	}
}

// Request is the canonical form of an envelope. A nil list was absent on the
// wire; a non-nil empty list was present but empty. Element 0 is the primary
// subject where a handler needs a single entity.
type Request struct {
	Operation     Operation
	Target        Target
	Users         []model.User
	Messages      []model.Message
	Conversations []model.Conversation
}

// Function returns the "<OPERATION> <TARGET>" form of the request.
func (r *Request) Function() string {
	return r.Operation.String() + " " + r.Target.String()
}

// Parse converts a raw JSON envelope into a Request. It either returns a fully
// populated request or an error wrapping errs.ErrInvalidRequest.
func Parse(raw []byte) (*Request, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: envelope must be an object", errs.ErrInvalidRequest)
	}
	// keys match exactly; encoding/json struct decoding would fold case
	var env map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidRequest, err)
	}

	op, target, err := parseFunction(env["function"])
	if err != nil {
		return nil, err
	}

	req := &Request{Operation: op, Target: target}
	if req.Users, err = decodeList(env["users"], "users", model.DecodeUser); err != nil {
		return nil, err
	}
	if req.Messages, err = decodeList(env["messages"], "messages", model.DecodeMessage); err != nil {
		return nil, err
	}
	if req.Conversations, err = decodeList(env["conversations"], "conversations", model.DecodeConversation); err != nil {
		return nil, err
	}
	return req, nil
}

// parseFunction splits "<OPERATION> <TARGET>". Tokens past the second are ignored.
func parseFunction(raw json.RawMessage) (Operation, Target, error) {
	var fn string
	if isNull(raw) || json.Unmarshal(raw, &fn) != nil {
		return 0, 0, fmt.Errorf("%w: invalid request function", errs.ErrInvalidRequest)
	}
	tokens := strings.FieldsFunc(fn, isASCIISpace)
	if len(tokens) < 2 {
		return 0, 0, fmt.Errorf("%w: invalid request function %q", errs.ErrInvalidRequest, fn)
	}
	op, ok := operationTokens[tokens[0]]
	if !ok {
		return 0, 0, fmt.Errorf("%w: unknown operation %q", errs.ErrInvalidRequest, tokens[0])
	}
	target, ok := targetTokens[tokens[1]]
	if !ok {
		return 0, 0, fmt.Errorf("%w: unknown target %q", errs.ErrInvalidRequest, tokens[1])
	}
	return op, target, nil
}

// isASCIISpace matches space, tab, LF, FF and CR. Other Unicode spaces are
// part of a token.
func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}

func decodeList[T any](raw json.RawMessage, name string, decode func(json.RawMessage) (T, error)) ([]T, error) {
	if isNull(raw) {
		return nil, nil
	}
	var items []json.RawMessage
	if bytes.TrimSpace(raw)[0] != '[' || json.Unmarshal(raw, &items) != nil {
		return nil, fmt.Errorf("%w: '%s' must be a list", errs.ErrInvalidRequest, name)
	}
	out := make([]T, 0, len(items))
	for i, item := range items {
		v, err := decode(item)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", name, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
