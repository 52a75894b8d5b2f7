package wire

import "google.golang.org/grpc"

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "chatcore.v1.Core"
	// SessionMethod is the full method name of the Session stream.
	SessionMethod = "/" + ServiceName + "/Session"
)

// CoreServer is implemented by the Session stream handler. Inbound frames are
// raw request envelopes; outbound frames are Reply values.
type CoreServer interface {
	Session(stream grpc.ServerStream) error
}

// SessionStreamDesc describes the bidirectional Session stream.
var SessionStreamDesc = grpc.StreamDesc{
	StreamName:    "Session",
	Handler:       sessionHandler,
	ServerStreams: true,
	ClientStreams: true,
}

// ServiceDesc is the Core service descriptor.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CoreServer)(nil),
	Streams:     []grpc.StreamDesc{SessionStreamDesc},
	Metadata:    "chatcore/v1/core",
}

func sessionHandler(srv any, stream grpc.ServerStream) error {
	return srv.(CoreServer).Session(stream)
}

// RegisterCoreServer registers srv on s.
func RegisterCoreServer(s grpc.ServiceRegistrar, srv CoreServer) {
	s.RegisterService(&ServiceDesc, srv)
}
