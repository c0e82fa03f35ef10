package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/scienceol/rockin/pkg/common"
	"github.com/scienceol/rockin/pkg/common/code"
	"github.com/scienceol/rockin/pkg/core/sample"
	"github.com/scienceol/rockin/pkg/core/sample/identity"
	"github.com/scienceol/rockin/pkg/middleware/logger"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/protoadapt"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	SampleServiceName = "rockin.v1.SampleService"
	// ErrorDomain tags the ErrorInfo detail attached to rejected registrations.
	ErrorDomain = "rockin.scienceol"
)

// SampleServer carries the registration workflow over gRPC.
// Requests are structs of the form {"well": ..., "kind": ..., "payload": {...}},
// InitialContext reads "known" instead of "payload".
type SampleServer interface {
	Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	InitialContext(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

func RegisterSampleServer(s grpc.ServiceRegistrar, srv SampleServer) {
	s.RegisterService(&sampleServiceDesc, srv)
}

var sampleServiceDesc = grpc.ServiceDesc{
	ServiceName: SampleServiceName,
	HandlerType: (*SampleServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unary(SampleServer.Register, "Register")},
		{MethodName: "InitialContext", Handler: unary(SampleServer.InitialContext, "InitialContext")},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rockin/v1/sample.proto",
}

type methodFunc func(SampleServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(call methodFunc, name string) grpc.MethodHandler {
	fullMethod := "/" + SampleServiceName + "/" + name
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SampleServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(SampleServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

type SampleService struct {
	sampleSvc sample.Service
}

func NewSampleService(sampleSvc sample.Service) *SampleService {
	return &SampleService{sampleSvc: sampleSvc}
}

func (s *SampleService) Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	kind, err := sample.ParseKind(str(req, "kind"))
	if err != nil {
		return nil, Status(err)
	}

	payload := map[string]any{}
	if v, ok := req.GetFields()["payload"]; ok && v.GetStructValue() != nil {
		payload = v.GetStructValue().AsMap()
	}

	resp, err := s.sampleSvc.Register(ctx, &sample.RegisterReq{
		Kind:    kind,
		Well:    str(req, "well"),
		Payload: payload,
	})
	if err != nil {
		logger.Warnf(ctx, "SampleService.Register kind: %s, err: %v", kind, err)
		return nil, Status(err)
	}
	return toStruct(resp)
}

func (s *SampleService) InitialContext(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	kind, err := sample.ParseKind(str(req, "kind"))
	if err != nil {
		return nil, Status(err)
	}
	if kind == sample.KindWell {
		return nil, Status(code.UnknownSampleKindErr.WithMsg(string(kind)))
	}

	known := map[string]any{}
	if v, ok := req.GetFields()["known"]; ok && v.GetStructValue() != nil {
		known = v.GetStructValue().AsMap()
	}

	resp, err := s.sampleSvc.InitialContext(ctx, &sample.InitialContextReq{
		Kind:  kind,
		Well:  str(req, "well"),
		Known: known,
	})
	if err != nil {
		return nil, Status(err)
	}
	return toStruct(resp)
}

func str(req *structpb.Struct, field string) string {
	return req.GetFields()[field].GetStringValue()
}

func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "marshal response: %v", err)
	}
	m := map[string]any{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, status.Errorf(codes.Internal, "unmarshal response: %v", err)
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "build response: %v", err)
	}
	return out, nil
}

var httpToGRPC = map[int]codes.Code{
	http.StatusBadRequest:          codes.InvalidArgument,
	http.StatusUnauthorized:        codes.Unauthenticated,
	http.StatusForbidden:           codes.PermissionDenied,
	http.StatusNotFound:            codes.NotFound,
	http.StatusConflict:            codes.AlreadyExists,
	http.StatusUnprocessableEntity: codes.FailedPrecondition,
	http.StatusServiceUnavailable:  codes.Unavailable,
}

// Status converts a registration error into a gRPC status carrying field violations and the error code.
func Status(err error) error {
	var idErr *identity.Error
	if errors.As(err, &idErr) {
		err = code.SampleIdentityErr
	}

	c := code.FromErr(err)
	grpcCode, ok := httpToGRPC[c.HTTPStatus()]
	if !ok {
		grpcCode = codes.Internal
	}

	info := &errdetails.ErrorInfo{
		Reason:   strconv.Itoa(c.Int()),
		Domain:   ErrorDomain,
		Metadata: map[string]string{},
	}
	var conflict *sample.ConflictError
	if errors.As(err, &conflict) && conflict.CounterField != "" {
		info.Metadata["counter_field"] = conflict.CounterField
		info.Metadata["suggested_sequence"] = strconv.FormatInt(conflict.Suggested, 10)
	}

	details := []protoadapt.MessageV1{info}
	var fieldErr common.FieldError
	if errors.As(err, &fieldErr) {
		br := &errdetails.BadRequest{}
		msgs := fieldErr.FieldMessages()
		fields := make([]string, 0, len(msgs))
		for field := range msgs {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			for _, msg := range msgs[field] {
				br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
					Field:       field,
					Description: msg,
				})
			}
		}
		details = append(details, br)
	}

	st := status.New(grpcCode, err.Error())
	withDetails, detailErr := st.WithDetails(details...)
	if detailErr != nil {
		return st.Err()
	}
	return withDetails.Err()
}
