package rpc

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// EnumSource lists enumeration values by calling the source method with
// no arguments. Object results contribute their "id".
type EnumSource struct {
	Invoker Invoker
}

func (e *EnumSource) EnumValues(ctx context.Context, source string) ([]any, error) {
	result, err := e.Invoker.Call(ctx, Call{ID: uuid.NewString(), Method: source})
	if err != nil {
		return nil, err
	}
	list, ok := result.([]any)
	if !ok {
		if result == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("%s returned %T, want a list", source, result)
	}
	values := make([]any, 0, len(list))
	for _, item := range list {
		if obj, ok := item.(map[string]any); ok {
			item = obj["id"]
		}
		values = append(values, item)
	}
	return values, nil
}
