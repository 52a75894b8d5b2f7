// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/chatcore/internal/model"
)

// Store is the storage collaborator used by request handlers. Reads run
// directly; writes go through InTx so a handler's rows commit or roll back
// together.
type Store interface {
	// GetCredential loads the stored password credential for email.
	GetCredential(ctx context.Context, email string) (model.Credential, error)
	// ListConversations returns the conversations email is a member of.
	ListConversations(ctx context.Context, email string) ([]model.Conversation, error)
	// ListMessages returns messages of a conversation visible to member email.
	ListMessages(ctx context.Context, conversationID uuid.UUID, email string) ([]model.Message, error)
	// ListMembers returns members of a conversation visible to member email.
	ListMembers(ctx context.Context, conversationID uuid.UUID, email string) ([]model.User, error)
	// InTx runs fn in a single transaction, committing only if fn returns nil.
	InTx(ctx context.Context, fn func(w Writer) error) error
}

// Writer issues single-row inserts inside a transaction.
type Writer interface {
	// CreateUser inserts a user with its password credential.
	CreateUser(ctx context.Context, email string, publicKey []byte, cred model.Credential) error
	// CreateConversation inserts a conversation row.
	CreateConversation(ctx context.Context, id uuid.UUID, name string) error
	// AddMember adds email to a conversation; repeated membership is ignored.
	AddMember(ctx context.Context, conversationID uuid.UUID, email string) error
	// CreateMessage inserts a message authored by author into a conversation.
	CreateMessage(ctx context.Context, id, conversationID uuid.UUID, author string, m model.Message) error
}
