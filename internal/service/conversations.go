package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/and161185/chatcore/internal/errs"
	"github.com/and161185/chatcore/internal/model"
	"github.com/and161185/chatcore/internal/repository"
	"github.com/and161185/chatcore/internal/request"
	"github.com/and161185/chatcore/internal/session"
)

// CreateConversations creates conversations[0] with the caller and every
// listed user as members. An empty users list creates a conversation whose
// only member is the caller.
func (h *Handler) CreateConversations(ctx context.Context, req *request.Request, login *session.Login) (*model.Response, error) {
	if err := requireAuth(login); err != nil {
		return nil, err
	}
	if err := requirePresent(req.Users, "users"); err != nil {
		return nil, err
	}
	if err := requireList(req.Conversations, "conversations"); err != nil {
		return nil, err
	}

	conv := req.Conversations[0]
	if conv.Name == nil {
		return nil, missingField("name", "conversation")
	}
	if !utf8.Valid(conv.Name) {
		return nil, fmt.Errorf("%w: 'name' field for 'conversation' is not valid UTF-8", errs.ErrInvalidRequest)
	}
	for _, u := range req.Users {
		if u.Email == nil {
			return nil, missingField("email", "user")
		}
	}

	id, err := h.newID()
	if err != nil {
		return nil, err
	}
	name := string(conv.Name)

	err = h.store.InTx(ctx, func(w repository.Writer) error {
		if err := w.CreateConversation(ctx, id, name); err != nil {
			return err
		}
		if err := w.AddMember(ctx, id, login.Email()); err != nil {
			return err
		}
		for _, u := range req.Users {
			if err := w.AddMember(ctx, id, *u.Email); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := model.OK()
	resp.Conversations = []model.Conversation{{ID: &id, Name: conv.Name}}
	return resp, nil
}

// ReadConversations returns every conversation the caller belongs to.
func (h *Handler) ReadConversations(ctx context.Context, _ *request.Request, login *session.Login) (*model.Response, error) {
	if err := requireAuth(login); err != nil {
		return nil, err
	}

	convs, err := h.store.ListConversations(ctx, login.Email())
	if err != nil {
		return nil, err
	}
	resp := model.OK()
	resp.Conversations = convs
	return resp, nil
}
