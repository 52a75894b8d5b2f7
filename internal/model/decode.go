package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/and161185/chatcore/internal/errs"
)

// DecodeUser decodes a single element of the "users" list.
func DecodeUser(raw json.RawMessage) (User, error) {
	var u User
	if err := decodeObject(raw, &u, "email", "password", "public_key"); err != nil {
		return User{}, err
	}
	return u, nil
}

// DecodeConversation decodes a single element of the "conversations" list.
func DecodeConversation(raw json.RawMessage) (Conversation, error) {
	var c Conversation
	if err := decodeObject(raw, &c, "id", "name"); err != nil {
		return Conversation{}, err
	}
	return c, nil
}

// DecodeMessage decodes a single element of the "messages" list.
func DecodeMessage(raw json.RawMessage) (Message, error) {
	var m Message
	if err := decodeObject(raw, &m, "data", "media_type", "timestamp", "signature"); err != nil {
		return Message{}, err
	}
	return m, nil
}

// decodeObject decodes the exactly named fields of a JSON object into dst.
// Other keys, including case variants of fields, are ignored.
func decodeObject(raw json.RawMessage, dst any, fields ...string) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("%w: expected object", errs.ErrInvalidRequest)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidRequest, err)
	}

	known := make(map[string]json.RawMessage, len(fields))
	for _, f := range fields {
		if v, ok := obj[f]; ok {
			known[f] = v
		}
	}
	b, err := json.Marshal(known)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidRequest, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidRequest, err)
	}
	return nil
}
