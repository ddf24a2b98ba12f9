package transport

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

// #region types
// InferResult holds the response from an Infer call.
type InferResult struct {
	System    string
	VersionID string
	RunID     string
	Outputs   []float64
	Strengths []float64
}

// SystemInfo is one entry of a ListSystems response.
type SystemInfo struct {
	Name      string
	VersionID string
}

// #endregion types

// #region client-struct
// Client wraps a gRPC connection to an inference server.
type Client struct {
	conn *grpc.ClientConn
}

// NewClient connects to the inference server at addr.
func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

// NewClientWithConn wraps an existing connection. Close closes it.
func NewClientWithConn(conn *grpc.ClientConn) *Client {
	return &Client{conn: conn}
}

// Close shuts down the gRPC connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// #endregion client-struct

// #region infer
// Infer runs the named system on inputs.
func (c *Client) Infer(ctx context.Context, system string, inputs []float64) (InferResult, error) {
	req, err := structpb.NewStruct(map[string]interface{}{
		"system": system,
		"inputs": floatList(inputs),
	})
	if err != nil {
		return InferResult{}, fmt.Errorf("encode request: %w", err)
	}
	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, inferMethod, req, resp); err != nil {
		return InferResult{}, fmt.Errorf("infer rpc: %w", err)
	}

	fields := resp.GetFields()
	out := InferResult{
		System:    fields["system"].GetStringValue(),
		VersionID: fields["version_id"].GetStringValue(),
		RunID:     fields["run_id"].GetStringValue(),
	}
	if out.Outputs, err = numberList(fields["outputs"]); err != nil {
		return InferResult{}, fmt.Errorf("decode outputs: %w", err)
	}
	if out.Strengths, err = numberList(fields["strengths"]); err != nil {
		return InferResult{}, fmt.Errorf("decode strengths: %w", err)
	}
	return out, nil
}

// #endregion infer

// #region list-systems
// ListSystems returns the systems the server can run.
func (c *Client) ListSystems(ctx context.Context) ([]SystemInfo, error) {
	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, listSystemsMethod, &structpb.Struct{}, resp); err != nil {
		return nil, fmt.Errorf("list systems rpc: %w", err)
	}
	items := resp.GetFields()["systems"].GetListValue().GetValues()
	out := make([]SystemInfo, 0, len(items))
	for _, item := range items {
		f := item.GetStructValue().GetFields()
		out = append(out, SystemInfo{
			Name:      f["name"].GetStringValue(),
			VersionID: f["version_id"].GetStringValue(),
		})
	}
	return out, nil
}

// #endregion list-systems
