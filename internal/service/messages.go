package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/chatcore/internal/model"
	"github.com/and161185/chatcore/internal/repository"
	"github.com/and161185/chatcore/internal/request"
	"github.com/and161185/chatcore/internal/session"
)

// CreateMessages appends every message to conversations[0], authored by the
// caller. An empty messages list writes nothing and succeeds.
func (h *Handler) CreateMessages(ctx context.Context, req *request.Request, login *session.Login) (*model.Response, error) {
	if err := requireAuth(login); err != nil {
		return nil, err
	}
	if err := requirePresent(req.Messages, "messages"); err != nil {
		return nil, err
	}
	convID, err := conversationID(req)
	if err != nil {
		return nil, err
	}
	for _, m := range req.Messages {
		switch {
		case m.Data == nil:
			return nil, missingField("data", "message")
		case m.MediaType == nil:
			return nil, missingField("media_type", "message")
		case m.Timestamp == nil:
			return nil, missingField("timestamp", "message")
		case m.Signature == nil:
			return nil, missingField("signature", "message")
		}
	}

	ids := make([]uuid.UUID, len(req.Messages))
	for i := range ids {
		if ids[i], err = h.newID(); err != nil {
			return nil, err
		}
	}

	err = h.store.InTx(ctx, func(w repository.Writer) error {
		for i, m := range req.Messages {
			if err := w.CreateMessage(ctx, ids[i], convID, login.Email(), m); err != nil {
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

// ReadMessages returns the messages of conversations[0].
func (h *Handler) ReadMessages(ctx context.Context, req *request.Request, login *session.Login) (*model.Response, error) {
	if err := requireAuth(login); err != nil {
		return nil, err
	}
	id, err := conversationID(req)
	if err != nil {
		return nil, err
	}

	msgs, err := h.store.ListMessages(ctx, id, login.Email())
	if err != nil {
		return nil, err
	}
	resp := model.OK()
	resp.Messages = msgs
	return resp, nil
}
