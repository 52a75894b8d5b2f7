package client

import (
	"crypto/ed25519"
	"encoding/json"
	"fmt"

	"github.com/and161185/chatcore/internal/crypto/clientcrypto"
	"github.com/and161185/chatcore/internal/model"
)

// VerifyEnvelope builds a VERIFY USERS request for email and password.
func VerifyEnvelope(email, password string) ([]byte, error) {
	return json.Marshal(map[string]any{
		"function": "VERIFY USERS",
		"users":    []model.User{{Email: &email, Password: &password}},
	})
}

// SignMessages fills the signature of every message in envelope that has data
// but no signature. Envelopes without a messages list are returned unchanged.
func SignMessages(envelope []byte, priv ed25519.PrivateKey) ([]byte, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(envelope, &fields); err != nil {
		return nil, fmt.Errorf("envelope: %w", err)
	}
	raw, ok := fields["messages"]
	if !ok {
		return envelope, nil
	}

	var msgs []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return nil, fmt.Errorf("messages: %w", err)
	}
	changed := false
	for i, m := range msgs {
		if sig, ok := m["signature"]; ok && string(sig) != "null" {
			continue
		}
		var data []byte
		if err := json.Unmarshal(m["data"], &data); err != nil || data == nil {
			continue
		}
		sig, err := json.Marshal(clientcrypto.SignMessage(priv, data))
		if err != nil {
			return nil, err
		}
		msgs[i]["signature"] = sig
		changed = true
	}
	if !changed {
		return envelope, nil
	}

	out, err := json.Marshal(msgs)
	if err != nil {
		return nil, err
	}
	fields["messages"] = out
	return json.Marshal(fields)
}
