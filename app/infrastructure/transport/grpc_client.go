package transport

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mark47B/campground-availability/app/domain/entity"
)

// AvailabilityClient calls AvailabilityService over conn.
type AvailabilityClient struct {
	cc grpc.ClientConnInterface
}

func NewAvailabilityClient(cc grpc.ClientConnInterface) *AvailabilityClient {
	return &AvailabilityClient{cc: cc}
}

func (c *AvailabilityClient) invoke(ctx context.Context, method string, req, resp any, opts ...grpc.CallOption) error {
	in, err := toStruct(req)
	if err != nil {
		return err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+AvailabilityServiceName+"/"+method, in, out, opts...); err != nil {
		return err
	}
	return fromStruct(out, resp)
}

func (c *AvailabilityClient) QueryAvailability(ctx context.Context, req QueryRequestDTO, opts ...grpc.CallOption) (*ReportDTO, error) {
	var report ReportDTO
	if err := c.invoke(ctx, "QueryAvailability", req, &report, opts...); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *AvailabilityClient) GetCampground(ctx context.Context, id string, opts ...grpc.CallOption) (*entity.Campground, error) {
	var cg entity.Campground
	if err := c.invoke(ctx, "GetCampground", IDRequestDTO{ID: id}, &cg, opts...); err != nil {
		return nil, err
	}
	return &cg, nil
}

func (c *AvailabilityClient) GetCampsite(ctx context.Context, id string, opts ...grpc.CallOption) (*entity.Campsite, error) {
	var cs entity.Campsite
	if err := c.invoke(ctx, "GetCampsite", IDRequestDTO{ID: id}, &cs, opts...); err != nil {
		return nil, err
	}
	return &cs, nil
}
