package transport

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/fuzzy-controller/internal/fuzzy"
	"github.com/danielpatrickdp/fuzzy-controller/internal/logging"
	"github.com/danielpatrickdp/fuzzy-controller/internal/registry"
	"github.com/danielpatrickdp/fuzzy-controller/internal/store"
)

// #region server-struct
// Server answers inference requests from a registry and records every run.
type Server struct {
	reg *registry.Registry
	db  *sql.DB // run log; nil disables logging
}

// NewServer creates a server. db must already carry the inference_log schema.
func NewServer(reg *registry.Registry, db *sql.DB) *Server {
	return &Server{reg: reg, db: db}
}

// Register attaches the inference service to g.
func (s *Server) Register(g *grpc.Server) {
	g.RegisterService(&serviceDesc, s)
}

// #endregion server-struct

// #region infer
// Infer expects {"system": string, "inputs": [number]}.
func (s *Server) Infer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	system := fields["system"].GetStringValue()
	if system == "" {
		return nil, status.Error(codes.InvalidArgument, "system is required")
	}
	inputs, err := numberList(fields["inputs"])
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "inputs: %v", err)
	}

	entry, err := s.reg.Engine(system)
	if err != nil {
		return nil, statusFor(err)
	}

	start := time.Now()
	res, inferErr := entry.Engine.InferDetailed(inputs)
	run := logging.RunEntry{
		SystemName:     system,
		VersionID:      entry.VersionID,
		Inputs:         inputs,
		Outputs:        res.Outputs,
		Strengths:      res.Strengths,
		DurationMicros: time.Since(start).Microseconds(),
	}
	if inferErr != nil {
		run.Error = inferErr.Error()
	}
	runID := ""
	if s.db != nil {
		if runID, err = logging.LogRun(s.db, run); err != nil {
			log.Printf("logging error: %v", err)
		}
	}
	if inferErr != nil {
		return nil, statusFor(inferErr)
	}

	resp, err := structpb.NewStruct(map[string]interface{}{
		"system":     system,
		"version_id": entry.VersionID,
		"outputs":    floatList(res.Outputs),
		"strengths":  floatList(res.Strengths),
		"run_id":     runID,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return resp, nil
}

// #endregion infer

// #region list-systems
// ListSystems returns {"systems": [{"name", "version_id"}]}.
func (s *Server) ListSystems(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	systems, err := s.reg.Systems()
	if err != nil {
		return nil, statusFor(err)
	}
	list := make([]interface{}, len(systems))
	for i, sys := range systems {
		list[i] = map[string]interface{}{"name": sys.Name, "version_id": sys.VersionID}
	}
	resp, err := structpb.NewStruct(map[string]interface{}{"systems": list})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return resp, nil
}

// #endregion list-systems

// #region interceptor
// LogUnary logs failed calls with their method and duration.
func LogUnary(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	if err != nil {
		log.Printf("%s failed after %s: %v", info.FullMethod, time.Since(start), err)
	}
	return resp, err
}

// #endregion interceptor

// #region helpers
// statusFor maps inference and lookup errors to gRPC codes.
func statusFor(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, fuzzy.ErrIndexOutOfRange), errors.Is(err, fuzzy.ErrTermNotFound),
		errors.Is(err, fuzzy.ErrInvalidConstruction):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, fuzzy.ErrEmptyAggregation):
		return status.Error(codes.FailedPrecondition, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

func numberList(v *structpb.Value) ([]float64, error) {
	if v == nil {
		return nil, fmt.Errorf("missing")
	}
	lv := v.GetListValue()
	if lv == nil {
		return nil, fmt.Errorf("expected a list of numbers")
	}
	out := make([]float64, len(lv.GetValues()))
	for i, item := range lv.GetValues() {
		n, ok := item.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return nil, fmt.Errorf("element %d is not a number", i)
		}
		out[i] = n.NumberValue
	}
	return out, nil
}

func floatList(v []float64) []interface{} {
	out := make([]interface{}, len(v))
	for i, f := range v {
		out[i] = f
	}
	return out
}

// #endregion helpers
