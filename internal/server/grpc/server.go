// Package grpcserver serves the Core Session stream: one login state per
// stream, one reply frame per request envelope.
package grpcserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/and161185/chatcore/internal/errs"
	"github.com/and161185/chatcore/internal/model"
	"github.com/and161185/chatcore/internal/request"
	"github.com/and161185/chatcore/internal/session"
	"github.com/and161185/chatcore/internal/wire"
)

// Handler executes one canonical request for a connection.
type Handler interface {
	Handle(ctx context.Context, req *request.Request, login *session.Login) (*model.Response, error)
}

// Server wires a request handler into the Session stream.
type Server struct {
	handler Handler
	log     *zap.Logger
}

var _ wire.CoreServer = (*Server)(nil)

// New constructs a Server.
func New(handler Handler, log *zap.Logger) *Server {
	return &Server{handler: handler, log: log}
}

// Session reads envelopes until the client closes its side. Request errors are
// reported in the reply frame and keep the stream open; cancellation ends it.
func (s *Server) Session(stream grpc.ServerStream) error {
	ctx := stream.Context()
	login := session.New()

	for {
		var raw json.RawMessage
		if err := stream.RecvMsg(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		reply := s.serve(ctx, raw, login)
		if err := stream.SendMsg(reply); err != nil {
			return err
		}
		if reply.Error != nil && reply.Error.Code == errs.CodeCanceled {
			if err := ctx.Err(); err != nil {
				return status.FromContextError(err).Err()
			}
			// a storage deadline expired while the stream is still live
			return status.Error(codes.Canceled, reply.Error.Message)
		}
	}
}

func (s *Server) serve(ctx context.Context, raw []byte, login *session.Login) *wire.Reply {
	start := time.Now()
	function := "-"

	resp, err := func() (*model.Response, error) {
		req, err := request.Parse(raw)
		if err != nil {
			return nil, err
		}
		function = req.Function()
		return s.handler.Handle(ctx, req, login)
	}()

	if err == nil {
		s.log.Info("request",
			zap.String("function", function),
			zap.String("code", "OK"),
			zap.Duration("dur", time.Since(start)),
		)
		return wire.OK(resp)
	}

	code := errs.Code(err)
	msg := err.Error()
	if code == errs.CodeInternal {
		s.log.Error("request failed",
			zap.String("function", function),
			zap.Duration("dur", time.Since(start)),
			zap.Error(err),
		)
		msg = "internal error"
	} else {
		s.log.Info("request",
			zap.String("function", function),
			zap.String("code", code),
			zap.Duration("dur", time.Since(start)),
		)
	}
	return wire.Fail(code, msg)
}
