package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/aidanlsb/rpcsh/internal/config"
	"github.com/aidanlsb/rpcsh/internal/history"
)

func TestReadHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	withConfig(t, &config.Config{HistoryFile: path}, "")
	prevLimit := historyLimit
	t.Cleanup(func() { historyLimit = prevLimit })
	historyLimit = 20

	cmd := &cobra.Command{}
	entries, err := readHistory(cmd, nil)
	if err != nil {
		t.Fatalf("readHistory without a database: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("entries = %v, want none", entries)
	}

	store, err := history.Open(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range []history.Entry{
		{Line: "account user query", Namespace: "", OK: true},
		{Line: "ls", Namespace: "account", OK: true},
		{Line: "account user delete 7", Namespace: "", OK: false},
	} {
		if err := store.Add(context.Background(), e); err != nil {
			t.Fatal(err)
		}
	}
	store.Close()

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "recent", want: []string{"account user query", "ls", "account user delete 7"}},
		{name: "prefix", args: []string{"account"}, want: []string{"account user delete 7", "account user query"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := readHistory(cmd, tt.args)
			if err != nil {
				t.Fatalf("readHistory: %v", err)
			}
			var lines []string
			for _, e := range entries {
				lines = append(lines, e.Line)
			}
			if diff := cmp.Diff(tt.want, lines); diff != "" {
				t.Errorf("lines mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
