package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/chatcore/internal/errs"
	"github.com/and161185/chatcore/internal/model"
	"github.com/and161185/chatcore/internal/repository"
)

type fakeStore struct {
	creds map[string]model.Credential

	conversations []model.Conversation
	messages      []model.Message
	members       []model.User

	getErr  error
	listErr error
	// failOn makes the write with this op name fail with failErr.
	failOn  string
	failErr error

	// committed holds writes of successful transactions, e.g. "user a@b.c".
	committed []string
	// attempted counts every write, committed or not.
	attempted int
	reads     int

	lastConvID uuid.UUID
	lastEmail  string
}

var _ repository.Store = (*fakeStore)(nil)

func (f *fakeStore) GetCredential(_ context.Context, email string) (model.Credential, error) {
	f.reads++
	if f.getErr != nil {
		return model.Credential{}, f.getErr
	}
	c, ok := f.creds[email]
	if !ok {
		return model.Credential{}, fmt.Errorf("get credential: %w", errs.ErrNotFound)
	}
	return c, nil
}

func (f *fakeStore) ListConversations(_ context.Context, email string) ([]model.Conversation, error) {
	f.reads++
	f.lastEmail = email
	return f.conversations, f.listErr
}

func (f *fakeStore) ListMessages(_ context.Context, id uuid.UUID, email string) ([]model.Message, error) {
	f.reads++
	f.lastConvID, f.lastEmail = id, email
	return f.messages, f.listErr
}

func (f *fakeStore) ListMembers(_ context.Context, id uuid.UUID, email string) ([]model.User, error) {
	f.reads++
	f.lastConvID, f.lastEmail = id, email
	return f.members, f.listErr
}

func (f *fakeStore) InTx(_ context.Context, fn func(w repository.Writer) error) error {
	w := &fakeWriter{store: f}
	if err := fn(w); err != nil {
		return err
	}
	f.committed = append(f.committed, w.staged...)
	return nil
}

type fakeWriter struct {
	store  *fakeStore
	staged []string
}

func (w *fakeWriter) write(op, key string) error {
	w.store.attempted++
	if w.store.failOn == op+" "+key {
		return w.store.failErr
	}
	w.staged = append(w.staged, op+" "+key)
	return nil
}

func (w *fakeWriter) CreateUser(_ context.Context, email string, publicKey []byte, cred model.Credential) error {
	if len(cred.Hash) == 0 || len(cred.Salt) == 0 {
		return errors.New("empty credential")
	}
	return w.write("user", email)
}

func (w *fakeWriter) CreateConversation(_ context.Context, id uuid.UUID, name string) error {
	w.store.lastConvID = id
	return w.write("conversation", name)
}

func (w *fakeWriter) AddMember(_ context.Context, _ uuid.UUID, email string) error {
	return w.write("member", email)
}

func (w *fakeWriter) CreateMessage(_ context.Context, _ uuid.UUID, conversationID uuid.UUID, author string, m model.Message) error {
	w.store.lastConvID = conversationID
	return w.write("message", author+":"+string(m.Data))
}

// plainHasher is a fast deterministic Hasher for handler tests.
type plainHasher struct{ n int }

func (h *plainHasher) Hash(password string) (model.Credential, error) {
	h.n++
	salt := []byte(fmt.Sprintf("salt-%d", h.n))
	return model.Credential{Hash: append([]byte(password+"|"), salt...), Salt: salt}, nil
}

func (h *plainHasher) Verify(password string, c model.Credential) bool {
	return string(c.Hash) == password+"|"+string(c.Salt)
}

func strp(s string) *string { return &s }
