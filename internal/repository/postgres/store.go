package postgres

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/and161185/chatcore/internal/errs"
	"github.com/and161185/chatcore/internal/model"
	"github.com/and161185/chatcore/internal/repository"
)

// Store implements repository.Store using PostgreSQL.
type Store struct{ db *DB }

var _ repository.Store = (*Store)(nil)

// NewStore constructs a store over db.
func NewStore(db *DB) *Store { return &Store{db: db} }

// GetCredential selects the password hash and salt for email.
func (s *Store) GetCredential(ctx context.Context, email string) (model.Credential, error) {
	const q = `
SELECT pass, salt
FROM users WHERE email=$1`
	var c model.Credential
	if err := s.db.Pool.QueryRow(ctx, q, email).Scan(&c.Hash, &c.Salt); err != nil {
		return model.Credential{}, mapErr("get credential", err)
	}
	return c, nil
}

// ListConversations selects conversations email belongs to, oldest first.
func (s *Store) ListConversations(ctx context.Context, email string) ([]model.Conversation, error) {
	const q = `
SELECT c.id, c.name
FROM conversations c
JOIN conversation_members m ON m.conversation_id = c.id
WHERE m.email = $1
ORDER BY c.created_at, c.id`
	rows, err := s.db.Pool.Query(ctx, q, email)
	if err != nil {
		return nil, mapErr("list conversations", err)
	}
	defer rows.Close()

	var out []model.Conversation
	for rows.Next() {
		var (
			id   uuid.UUID
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, mapErr("list conversations", err)
		}
		out = append(out, model.Conversation{ID: &id, Name: []byte(name)})
	}
	return nonEmpty("list conversations", out, rows.Err())
}

// ListMessages selects messages of conversationID if email is a member.
func (s *Store) ListMessages(ctx context.Context, conversationID uuid.UUID, email string) ([]model.Message, error) {
	const q = `
SELECT msg.data, msg.media_type, msg.sent_at, msg.signature
FROM messages msg
JOIN conversation_members m ON m.conversation_id = msg.conversation_id
WHERE m.email = $1 AND msg.conversation_id = $2
ORDER BY msg.sent_at, msg.created_at`
	rows, err := s.db.Pool.Query(ctx, q, email, conversationID)
	if err != nil {
		return nil, mapErr("list messages", err)
	}
	defer rows.Close()

	var out []model.Message
	for rows.Next() {
		var (
			data, sig []byte
			mediaType string
			sentAt    time.Time
		)
		if err := rows.Scan(&data, &mediaType, &sentAt, &sig); err != nil {
			return nil, mapErr("list messages", err)
		}
		out = append(out, model.Message{Data: data, MediaType: &mediaType, Timestamp: &sentAt, Signature: sig})
	}
	return nonEmpty("list messages", out, rows.Err())
}

// ListMembers selects members of conversationID if email is one of them.
func (s *Store) ListMembers(ctx context.Context, conversationID uuid.UUID, email string) ([]model.User, error) {
	const q = `
SELECT u.email, u.public_key
FROM users u
JOIN conversation_members m ON m.email = u.email
WHERE m.conversation_id = $2
  AND EXISTS (SELECT 1 FROM conversation_members me WHERE me.conversation_id = $2 AND me.email = $1)
ORDER BY u.email`
	rows, err := s.db.Pool.Query(ctx, q, email, conversationID)
	if err != nil {
		return nil, mapErr("list members", err)
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var (
			email     string
			publicKey []byte
		)
		if err := rows.Scan(&email, &publicKey); err != nil {
			return nil, mapErr("list members", err)
		}
		out = append(out, model.User{Email: &email, PublicKey: publicKey})
	}
	return nonEmpty("list members", out, rows.Err())
}

// InTx runs fn inside a transaction; it rolls back when fn fails or panics.
func (s *Store) InTx(ctx context.Context, fn func(w repository.Writer) error) (err error) {
	tx, err := s.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return mapErr("begin", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = mapErr("commit", e)
		}
	}()

	return fn(writer{q: tx})
}

func nonEmpty[T any](op string, out []T, err error) ([]T, error) {
	if err != nil {
		return nil, mapErr(op, err)
	}
	if len(out) == 0 {
		return nil, mapErr(op, pgx.ErrNoRows)
	}
	return out, nil
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// writer implements repository.Writer over a transaction.
type writer struct{ q execer }

// CreateUser inserts a new user row.
func (w writer) CreateUser(ctx context.Context, email string, publicKey []byte, cred model.Credential) error {
	const q = `
INSERT INTO users (email, public_key, pass, salt)
VALUES ($1, $2, $3, $4)`
	_, err := w.q.Exec(ctx, q, email, publicKey, cred.Hash, cred.Salt)
	return mapErr("create user", err)
}

// CreateConversation inserts a new conversation row.
func (w writer) CreateConversation(ctx context.Context, id uuid.UUID, name string) error {
	const q = `
INSERT INTO conversations (id, name)
VALUES ($1, $2)`
	_, err := w.q.Exec(ctx, q, id, name)
	return mapErr("create conversation", err)
}

// AddMember inserts a membership row; an existing membership is left as is.
func (w writer) AddMember(ctx context.Context, conversationID uuid.UUID, email string) error {
	const q = `
INSERT INTO conversation_members (conversation_id, email)
VALUES ($1, $2)
ON CONFLICT DO NOTHING`
	_, err := w.q.Exec(ctx, q, conversationID, email)
	return mapErr("add member "+email, err)
}

// CreateMessage inserts a message row. m must carry every field.
func (w writer) CreateMessage(ctx context.Context, id, conversationID uuid.UUID, author string, m model.Message) error {
	if m.MediaType == nil || m.Timestamp == nil {
		return errs.ErrInvalidRequest
	}
	const q = `
INSERT INTO messages (id, conversation_id, author, data, media_type, sent_at, signature)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := w.q.Exec(ctx, q, id, conversationID, author, m.Data, *m.MediaType, *m.Timestamp, m.Signature)
	return mapErr("create message", err)
}
