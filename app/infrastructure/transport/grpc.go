package transport

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mark47B/campground-availability/app/domain/entity"
	"github.com/mark47B/campground-availability/app/usecase"
)

const (
	AvailabilityServiceName = "campground.availability.v1.AvailabilityService"

	errorDomain = "recreation.gov"
)

// AvailabilityServer is the server API of AvailabilityService. Messages are
// google.protobuf.Struct documents holding the JSON DTOs from mapping.go.
type AvailabilityServer interface {
	QueryAvailability(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetCampground(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetCampsite(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func unaryHandler(method string, call func(AvailabilityServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodHandler {
	fullMethod := "/" + AvailabilityServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AvailabilityServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AvailabilityServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var availabilityServiceDesc = grpc.ServiceDesc{
	ServiceName: AvailabilityServiceName,
	HandlerType: (*AvailabilityServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "QueryAvailability", Handler: unaryHandler("QueryAvailability", AvailabilityServer.QueryAvailability)},
		{MethodName: "GetCampground", Handler: unaryHandler("GetCampground", AvailabilityServer.GetCampground)},
		{MethodName: "GetCampsite", Handler: unaryHandler("GetCampsite", AvailabilityServer.GetCampsite)},
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterAvailabilityServer(s grpc.ServiceRegistrar, srv AvailabilityServer) {
	s.RegisterService(&availabilityServiceDesc, srv)
}

type gRPCServer struct {
	svc *usecase.AvailabilityService
}

func NewgRPCServer(svc *usecase.AvailabilityService) *gRPCServer {
	return &gRPCServer{svc: svc}
}

// NewGRPC builds a grpc.Server with the availability, health and reflection
// services registered.
func NewGRPC(server AvailabilityServer) (*grpc.Server, *health.Server) {
	s := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	RegisterAvailabilityServer(s, server)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(s, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(AvailabilityServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(s)
	return s, healthServer
}

func StartgRPCServer(ctx context.Context, addr string, server *gRPCServer) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	defer lis.Close()

	s, healthServer := NewGRPC(server)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("gRPC server listening on %s", addr)
		if err := s.Serve(lis); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Println("Context canceled, shutting down gRPC gracefully...")
		healthServer.Shutdown()
		s.GracefulStop()
	case err := <-errCh:
		log.Printf("gRPC server error: %v", err)
		return err
	}
	return nil
}

func (s *gRPCServer) QueryAvailability(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var dto QueryRequestDTO
	if err := fromStruct(req, &dto); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	report, err := s.svc.QueryAvailability(ctx, toAvailabilityQuery(dto))
	observeQuery(report, err)
	if err != nil {
		return nil, toStatusError(err, dto.CampgroundID)
	}

	out, err := toStruct(toReportDTO(report))
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func (s *gRPCServer) GetCampground(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var dto IDRequestDTO
	if err := fromStruct(req, &dto); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	cg, err := s.svc.FetchCampground(ctx, dto.ID)
	if err != nil {
		return nil, toStatusError(err, dto.ID)
	}

	out, err := toStruct(cg)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func (s *gRPCServer) GetCampsite(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var dto IDRequestDTO
	if err := fromStruct(req, &dto); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	cs, err := s.svc.FetchCampsite(ctx, dto.ID)
	if err != nil {
		return nil, toStatusError(err, "")
	}

	out, err := toStruct(cs)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func toStatusError(err error, campgroundID string) error {
	switch {
	case errors.Is(err, entity.ErrInvalidQuery):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, entity.ErrNotFound):
		return statusWithReason(codes.NotFound, "campground not found", "CAMPGROUND_NOT_FOUND",
			map[string]string{"campground_id": campgroundID})
	case entity.IsProviderFailure(err):
		return statusWithReason(codes.Unavailable, err.Error(), "PROVIDER_FAILURE", nil)
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return statusWithReason(codes.Unavailable, err.Error(), "PROVIDER_FAILURE", nil)
	}
}

func statusWithReason(code codes.Code, msg, reason string, metadata map[string]string) error {
	st := status.New(code, msg)
	withDetails, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason:   reason,
		Domain:   errorDomain,
		Metadata: metadata,
	})
	if err != nil {
		return st.Err()
	}
	return withDetails.Err()
}
