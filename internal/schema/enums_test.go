package schema

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type countingProvider struct {
	calls  int
	values map[string][]any
	err    error
}

func (p *countingProvider) EnumValues(_ context.Context, source string) ([]any, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return append([]any(nil), p.values[source]...), nil
}

func TestEnumCache(t *testing.T) {
	ctx := context.Background()
	provider := &countingProvider{values: map[string][]any{
		"user.shell_choices": {"/bin/sh", "/usr/bin/zsh"},
	}}
	cache := NewEnumCache(provider, time.Hour)

	t.Run("static enum", func(t *testing.T) {
		n := &ScalarNode{Enum: []any{"ON", "OFF"}}
		got, err := cache.Values(ctx, n)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]any{"ON", "OFF"}, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("late-bound enum is cached", func(t *testing.T) {
		n := &ScalarNode{EnumSource: "user.shell_choices"}
		for i := 0; i < 3; i++ {
			got, err := cache.Values(ctx, n)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != 2 {
				t.Fatalf("got %v", got)
			}
		}
		if provider.calls != 1 {
			t.Errorf("provider called %d times, want 1", provider.calls)
		}
	})

	t.Run("provider error", func(t *testing.T) {
		failing := NewEnumCache(&countingProvider{err: errors.New("offline")}, time.Hour)
		if _, err := failing.Values(ctx, &ScalarNode{EnumSource: "x"}); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("nil provider", func(t *testing.T) {
		got, err := NewEnumCache(nil, time.Hour).Values(ctx, &ScalarNode{EnumSource: "x"})
		if err != nil || got != nil {
			t.Errorf("got %v, %v; want nil, nil", got, err)
		}
	})
}
