// Package client opens Session streams against a chatcore server.
package client

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/and161185/chatcore/internal/wire"
)

// LoadTLS builds transport credentials: a custom CA when caPath is set, the
// system roots otherwise. insecure skips verification (dev only).
func LoadTLS(caPath string, insecure bool) (credentials.TransportCredentials, error) {
	if insecure {
		return credentials.NewTLS(&tls.Config{InsecureSkipVerify: true}), nil //nolint:gosec // explicit dev flag
	}
	if caPath == "" {
		return credentials.NewClientTLSFromCert(nil, ""), nil
	}
	pem, err := os.ReadFile(caPath)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, errors.New("bad CA cert")
	}
	return credentials.NewTLS(&tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}), nil
}

// Client is a connection to a chatcore server.
type Client struct {
	cc *grpc.ClientConn
}

// Dial creates a client for addr. Extra options are appended after the
// transport credentials, so tests can inject a dialer.
func Dial(addr string, creds credentials.TransportCredentials, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(creds),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(wire.CodecName)),
	}, opts...)
	cc, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return &Client{cc: cc}, nil
}

// Close releases the connection.
func (c *Client) Close() error { return c.cc.Close() }

// Session is one open stream. The server keeps login state per Session, so
// a VERIFY on one Session does not authenticate another.
type Session struct {
	stream grpc.ClientStream
}

// Open starts a new Session stream. Cancelling ctx ends the stream.
func (c *Client) Open(ctx context.Context) (*Session, error) {
	stream, err := c.cc.NewStream(ctx, &wire.SessionStreamDesc, wire.SessionMethod)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	return &Session{stream: stream}, nil
}

// Do sends one envelope and waits for its reply. A request-level failure is
// reported in Reply.Error with a nil error.
func (s *Session) Do(envelope []byte) (*wire.Reply, error) {
	if !json.Valid(envelope) {
		return nil, errors.New("envelope is not valid JSON")
	}
	if err := s.stream.SendMsg(json.RawMessage(envelope)); err != nil {
		return nil, fmt.Errorf("send: %w", err)
	}
	var reply wire.Reply
	if err := s.stream.RecvMsg(&reply); err != nil {
		return nil, fmt.Errorf("recv: %w", err)
	}
	return &reply, nil
}

// Close half-closes the stream; the server then ends it.
func (s *Session) Close() error { return s.stream.CloseSend() }
