// Package processor implements the message processor behind the almanac MCP
// endpoint. It consumes decoded JSON-RPC messages one at a time and produces
// exactly one encoded reply for every id-bearing message, in the order
// received, and no reply for notifications. The transport's single consumer
// goroutine is the only caller, so processing is strictly sequential.
package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/almanac-dev/almanac/internal/almanacd/calendar"
	"github.com/almanac-dev/almanac/internal/common/apperrors"
	"github.com/almanac-dev/almanac/internal/common/jsonrpc"
)

const (
	serverName    = "almanac"
	serverVersion = "0.1.0"
)

// Processor dispatches MCP messages to the calendar tools. Tool input
// schemas are compiled once at construction and enforced before dispatch.
type Processor struct {
	srv     *server.MCPServer
	store   *calendar.Store
	schemas map[string]*jsonschema.Schema
}

// New creates a processor over the given store with all calendar tools
// registered.
func New(store *calendar.Store) (*Processor, apperrors.Error) {
	if store == nil {
		return nil, ErrNilStore
	}
	p := &Processor{
		store:   store,
		schemas: make(map[string]*jsonschema.Schema),
	}
	p.srv = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
	)
	if err := p.registerTools(); err != nil {
		return nil, err
	}
	return p, nil
}

// Process handles one decoded message and returns the encoded reply, or nil
// when the message is a notification.
func (p *Processor) Process(ctx context.Context, msg json.RawMessage) json.RawMessage {
	resp := p.srv.HandleMessage(ctx, msg)
	if resp == nil {
		return nil
	}
	b, err := json.Marshal(resp)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("unable to marshal processor response")
		b, _ = jsonrpc.ConstructErrorResponse(json.RawMessage("null"), jsonrpc.ErrCodeInternalError, "unable to encode response", nil)
	}
	return b
}

// registerTools compiles each tool's input schema and registers a handler
// that validates arguments against it before dispatch.
func (p *Processor) registerTools() apperrors.Error {
	for _, def := range toolDefs {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		resource := def.name + ".json"
		if err := compiler.AddResource(resource, strings.NewReader(def.schema)); err != nil {
			return ErrSchemaCompile.MsgErr("cannot add schema for "+def.name, err)
		}
		sch, err := compiler.Compile(resource)
		if err != nil {
			return ErrSchemaCompile.MsgErr("cannot compile schema for "+def.name, err)
		}
		p.schemas[def.name] = sch

		tool := mcp.Tool{
			Name:           def.name,
			Description:    def.description,
			RawInputSchema: json.RawMessage(def.schema),
		}
		handler := def.handler
		name := def.name
		p.srv.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := req.Params.Arguments.(map[string]any)
			if args == nil {
				args = map[string]any{}
			}
			if err := p.schemas[name].Validate(args); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid arguments for %s: %v", name, err)), nil
			}
			log.Ctx(ctx).Info().Str("tool", name).Msg("tool call")
			return handler(p, ctx, args)
		})
	}
	return nil
}

// textResult marshals v and wraps it as a text tool result.
func textResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError("unable to encode result"), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// errorResult wraps an application error as a tool error result. Tool-level
// failures stay inside the reply payload; they are not transport errors.
func errorResult(err apperrors.Error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.ErrorAll()), nil
}
