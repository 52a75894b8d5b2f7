package service

import (
	"context"
	"errors"

	"github.com/and161185/chatcore/internal/errs"
	"github.com/and161185/chatcore/internal/model"
	"github.com/and161185/chatcore/internal/repository"
	"github.com/and161185/chatcore/internal/request"
	"github.com/and161185/chatcore/internal/session"
)

// credentialError is a failed login. Its text is identical for an unknown
// email and a wrong password; errors.Is still reports errs.ErrNotFound for
// the former.
type credentialError struct{ cause error }

func (e *credentialError) Error() string { return "unauthorized: invalid credentials" }

func (e *credentialError) Unwrap() []error {
	if e.cause == nil {
		return []error{errs.ErrUnauthorized}
	}
	return []error{errs.ErrUnauthorized, e.cause}
}

// VerifyUsers checks the password of users[0] and authenticates login on success.
func (h *Handler) VerifyUsers(ctx context.Context, req *request.Request, login *session.Login) (*model.Response, error) {
	if err := requireList(req.Users, "users"); err != nil {
		return nil, err
	}
	user := req.Users[0]
	if user.Email == nil {
		return nil, missingField("email", "user")
	}
	if user.Password == nil {
		return nil, missingField("password", "user")
	}

	stored, err := h.store.GetCredential(ctx, *user.Email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, &credentialError{cause: errs.ErrNotFound}
		}
		return nil, err
	}
	if !h.hasher.Verify(*user.Password, stored) {
		return nil, &credentialError{}
	}

	login.Authenticate(*user.Email)
	return model.OK(), nil
}

// CreateUsers registers every user in the request. The whole batch is
// validated first and written in one transaction.
func (h *Handler) CreateUsers(ctx context.Context, req *request.Request) (*model.Response, error) {
	if err := requireList(req.Users, "users"); err != nil {
		return nil, err
	}
	for _, u := range req.Users {
		switch {
		case u.Email == nil:
			return nil, missingField("email", "user")
		case u.Password == nil:
			return nil, missingField("password", "user")
		case u.PublicKey == nil:
			return nil, missingField("public_key", "user")
		}
	}

	creds := make([]model.Credential, len(req.Users))
	for i, u := range req.Users {
		c, err := h.hasher.Hash(*u.Password)
		if err != nil {
			return nil, err
		}
		creds[i] = c
	}

	err := h.store.InTx(ctx, func(w repository.Writer) error {
		for i, u := range req.Users {
			if err := w.CreateUser(ctx, *u.Email, u.PublicKey, creds[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return model.OK(), nil
}

// ReadUsers returns the members of conversations[0] as {email, public_key}.
func (h *Handler) ReadUsers(ctx context.Context, req *request.Request, login *session.Login) (*model.Response, error) {
	if err := requireAuth(login); err != nil {
		return nil, err
	}
	id, err := conversationID(req)
	if err != nil {
		return nil, err
	}

	members, err := h.store.ListMembers(ctx, id, login.Email())
	if err != nil {
		return nil, err
	}
	resp := model.OK()
	resp.Users = members
	return resp, nil
}
