package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/and161185/chatcore/internal/errs"
)

func TestParse_FunctionCrossProduct(t *testing.T) {
	t.Parallel()

	ops := []string{"CREATE", "READ", "UPDATE", "DELETE", "VERIFY", "create", "LIST", ""}
	targets := []string{"USERS", "MESSAGES", "CONVERSATIONS", "users", "TOPICS"}

	for _, op := range ops {
		for _, tg := range targets {
			raw := []byte(`{"function":"` + op + ` ` + tg + `"}`)
			req, err := Parse(raw)

			_, opOK := operationTokens[op]
			_, tgOK := targetTokens[tg]
			if opOK && tgOK {
				require.NoError(t, err, "function %q %q", op, tg)
				assert.Equal(t, op, req.Operation.String())
				assert.Equal(t, tg, req.Target.String())
				assert.Equal(t, op+" "+tg, req.Function())
				continue
			}
			require.ErrorIs(t, err, errs.ErrInvalidRequest, "function %q %q", op, tg)
			assert.Nil(t, req)
		}
	}
}

func TestParse_FunctionErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"missing":        `{}`,
		"null":           `{"function":null}`,
		"number":         `{"function":5}`,
		"one token":      `{"function":"VERIFY"}`,
		"blank":          `{"function":"   "}`,
		"not object":     `["VERIFY USERS"]`,
		"garbage":        `{"function":`,
		"empty envelope": ``,
	}
	for name, raw := range cases {
		_, err := Parse([]byte(raw))
		require.ErrorIs(t, err, errs.ErrInvalidRequest, name)
	}
}

func TestParse_UnknownTokenNamed(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`{"function":"FETCH USERS"}`))
	require.ErrorContains(t, err, `unknown operation "FETCH"`)

	_, err = Parse([]byte(`{"function":"READ GROUPS"}`))
	require.ErrorContains(t, err, `unknown target "GROUPS"`)
}

func TestParse_ExtraTokensIgnored(t *testing.T) {
	t.Parallel()

	req, err := Parse([]byte(`{"function":"  READ\tMESSAGES please now "}`))
	require.NoError(t, err)
	require.Equal(t, Read, req.Operation)
	require.Equal(t, Messages, req.Target)
}

func TestParse_SplitsOnASCIIWhitespaceOnly(t *testing.T) {
	t.Parallel()

	req, err := Parse([]byte("{\"function\":\"READ\\r\\n\\fUSERS\"}"))
	require.NoError(t, err)
	require.Equal(t, Users, req.Target)

	_, err = Parse([]byte(`{"function":"READ\u00a0USERS"}`))
	require.ErrorIs(t, err, errs.ErrInvalidRequest)

	_, err = Parse([]byte(`{"function":"READ\u2003USERS"}`))
	require.ErrorIs(t, err, errs.ErrInvalidRequest)
}

func TestParse_FieldNamesAreExact(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`{"FUNCTION":"READ USERS"}`))
	require.ErrorIs(t, err, errs.ErrInvalidRequest)

	req, err := Parse([]byte(`{"function":"VERIFY USERS","Users":[{"email":"a@example.com"}]}`))
	require.NoError(t, err)
	require.Nil(t, req.Users, "case variant of a list name is an unknown field")
}

func TestParse_Lists(t *testing.T) {
	t.Parallel()

	req, err := Parse([]byte(`{
		"function": "CREATE CONVERSATIONS",
		"users": [{"email": "bob@example.com"}, {"email": "carol@example.com"}],
		"conversations": [{"name": "Z2VuZXJhbA=="}],
		"messages": null
	}`))
	require.NoError(t, err)
	require.Len(t, req.Users, 2)
	require.Equal(t, "bob@example.com", *req.Users[0].Email)
	require.Equal(t, "carol@example.com", *req.Users[1].Email)
	require.Len(t, req.Conversations, 1)
	require.Equal(t, []byte("general"), req.Conversations[0].Name)
	require.Nil(t, req.Messages)

	req, err = Parse([]byte(`{"function":"CREATE USERS","users":[]}`))
	require.NoError(t, err)
	require.NotNil(t, req.Users)
	require.Empty(t, req.Users)
}

func TestParse_ListErrors(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`{"function":"CREATE USERS","users":{"email":"a"}}`))
	require.ErrorIs(t, err, errs.ErrInvalidRequest)
	require.ErrorContains(t, err, "'users' must be a list")

	_, err = Parse([]byte(`{"function":"CREATE USERS","users":[{"email":"a"},{"email":7}]}`))
	require.ErrorIs(t, err, errs.ErrInvalidRequest)
	require.ErrorContains(t, err, "users[1]")

	_, err = Parse([]byte(`{"function":"READ MESSAGES","conversations":[{"id":"nope"}]}`))
	require.ErrorIs(t, err, errs.ErrInvalidRequest)
	require.ErrorContains(t, err, "conversations[0]")

	_, err = Parse([]byte(`{"function":"CREATE MESSAGES","messages":[1]}`))
	require.ErrorIs(t, err, errs.ErrInvalidRequest)
}

func TestParse_Idempotent(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"function":"CREATE MESSAGES",
		"conversations":[{"id":"6ba7b810-9dad-11d1-80b4-00c04fd430c8"}],
		"messages":[{"data":"aGk=","media_type":"text/plain","timestamp":"2024-05-01T10:00:00Z","signature":"c2ln"}]}`)

	a, err := Parse(raw)
	require.NoError(t, err)
	b, err := Parse(raw)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestEnumStrings(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Operation(0)", Operation(0).String())
	require.Equal(t, "Target(9)", Target(9).String())
}
