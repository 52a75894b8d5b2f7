// Package service contains the request handlers: one per supported
// operation and target, each validating its payload, enforcing the login gate
// and issuing storage work.
package service

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/chatcore/internal/crypto"
	"github.com/and161185/chatcore/internal/errs"
	"github.com/and161185/chatcore/internal/model"
	"github.com/and161185/chatcore/internal/repository"
	"github.com/and161185/chatcore/internal/request"
	"github.com/and161185/chatcore/internal/session"
)

// Handler executes canonical requests against storage.
type Handler struct {
	store  repository.Store
	hasher crypto.Hasher
	newID  func() (uuid.UUID, error)
}

// NewHandler constructs a Handler with required dependencies.
func NewHandler(store repository.Store, hasher crypto.Hasher) *Handler {
	return &Handler{store: store, hasher: hasher, newID: uuid.NewV4}
}

// Handle dispatches req to the handler for its operation and target. login is
// the caller's connection state; VERIFY USERS may mark it authenticated.
func (h *Handler) Handle(ctx context.Context, req *request.Request, login *session.Login) (*model.Response, error) {
	switch req.Operation {
	case request.Verify:
		switch req.Target {
		case request.Users:
			return h.VerifyUsers(ctx, req, login)
		case request.Conversations, request.Messages:
		}
	case request.Create:
		switch req.Target {
		case request.Users:
			return h.CreateUsers(ctx, req)
		case request.Conversations:
			return h.CreateConversations(ctx, req, login)
		case request.Messages:
			return h.CreateMessages(ctx, req, login)
		}
	case request.Read:
		switch req.Target {
		case request.Users:
			return h.ReadUsers(ctx, req, login)
		case request.Conversations:
			return h.ReadConversations(ctx, req, login)
		case request.Messages:
			return h.ReadMessages(ctx, req, login)
		}
	case request.Update, request.Delete:
	}
	return nil, fmt.Errorf("%w: unsupported request %s", errs.ErrInvalidRequest, req.Function())
}

func requireAuth(login *session.Login) error {
	if !login.IsAuthenticated() {
		return fmt.Errorf("%w: not authenticated", errs.ErrUnauthorized)
	}
	return nil
}

// requirePresent checks that a list was sent; it may be empty.
func requirePresent[T any](list []T, name string) error {
	if list == nil {
		return fmt.Errorf("%w: missing '%s' list", errs.ErrInvalidRequest, name)
	}
	return nil
}

// requireList checks that a list was sent and is not empty. Use it for lists
// whose first element is read.
func requireList[T any](list []T, name string) error {
	if err := requirePresent(list, name); err != nil {
		return err
	}
	if len(list) == 0 {
		return fmt.Errorf("%w: empty '%s' list", errs.ErrInvalidRequest, name)
	}
	return nil
}

func missingField(field, entity string) error {
	return fmt.Errorf("%w: missing '%s' field for '%s'", errs.ErrInvalidRequest, field, entity)
}

// conversationID returns the id of the primary conversation of req.
func conversationID(req *request.Request) (uuid.UUID, error) {
	if err := requireList(req.Conversations, "conversations"); err != nil {
		return uuid.Nil, err
	}
	id := req.Conversations[0].ID
	if id == nil {
		return uuid.Nil, missingField("id", "conversation")
	}
	return *id, nil
}
