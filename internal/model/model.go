// Package model defines domain entities exchanged with clients and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// StatusOK is the only status produced by successful handlers.
const StatusOK = 1

// User is an account as seen on the wire. Every field is optional; handlers
// decide which ones they require.
type User struct {
	Email     *string `json:"email,omitempty"`
	Password  *string `json:"password,omitempty"`   // plaintext on input only
	PublicKey []byte  `json:"public_key,omitempty"` // client identity key
}

// Conversation is a named group of members.
type Conversation struct {
	ID   *uuid.UUID `json:"id,omitempty"`
	Name []byte     `json:"name,omitempty"`
}

// Message is a single signed payload posted to a conversation.
type Message struct {
	Data      []byte     `json:"data,omitempty"`
	MediaType *string    `json:"media_type,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Signature []byte     `json:"signature,omitempty"`
}

// Credential is a stored password: Argon2i(password, Salt). Plaintext is never kept.
type Credential struct {
	Hash []byte
	Salt []byte
}

// Response is the outcome envelope returned by handlers.
type Response struct {
	Status        int            `json:"status"`
	Users         []User         `json:"users,omitempty"`
	Messages      []Message      `json:"messages,omitempty"`
	Conversations []Conversation `json:"conversations,omitempty"`
}

// OK returns a bare success response.
func OK() *Response { return &Response{Status: StatusOK} }
