package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aidanlsb/rpcsh/internal/atomicfile"
	"github.com/aidanlsb/rpcsh/internal/schema"
)

// DryRun is an Invoker that prints each call as a JSON-RPC request instead
// of sending it. Results come from Responses, keyed by method name.
type DryRun struct {
	Out       io.Writer
	Catalogue *schema.Catalogue // When set, arguments are validated first
	Responses map[string]any
}

type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	Job     bool   `json:"job,omitempty"`
}

func (d *DryRun) Call(ctx context.Context, call Call) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if d.Catalogue != nil {
		if m, ok := d.Catalogue.Method(call.Method); ok {
			if verrs := Validate(m, call.Args); verrs != nil {
				return nil, verrs
			}
		}
	}

	params := call.Args
	if params == nil {
		params = []any{}
	}
	data, err := json.MarshalIndent(request{
		JSONRPC: "2.0",
		ID:      call.ID,
		Method:  call.Method,
		Params:  params,
		Job:     call.Job,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", call.Method, err)
	}
	if d.Out != nil {
		fmt.Fprintln(d.Out, string(data))
	}

	if call.Job && call.Progress != nil {
		call.Progress(Progress{Percent: 100, Description: "Dry run complete"})
	}

	result := d.Responses[call.Method]
	if call.Redirect != "" {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode result: %w", err)
		}
		if err := atomicfile.WriteFile(call.Redirect, append(out, '\n'), 0); err != nil {
			return nil, fmt.Errorf("write %s: %w", call.Redirect, err)
		}
		return nil, nil
	}
	return result, nil
}

// LoadResponses reads canned results from a JSON object keyed by method
// name.
func LoadResponses(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		out[k] = schema.Normalize(v)
	}
	return out, nil
}
