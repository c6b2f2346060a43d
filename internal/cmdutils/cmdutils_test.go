package cmdutils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/openkcm/common-sdk/pkg/health"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mshando/marketplace-client/internal/config"
)

func TestCobraCommand(t *testing.T) {
	t.Run("creates command with correct properties", func(t *testing.T) {
		businessFunc := func(ctx context.Context, cfg *config.Config) error {
			return nil
		}

		wrapperFunc := func(ctx context.Context, fn BusinessFunc, cfg *config.Config) error {
			return fn(ctx, cfg)
		}

		cmd := CobraCommand("test-cmd", "short desc", "long description", "v1.0.0", wrapperFunc, businessFunc)

		assert.Equal(t, "test-cmd", cmd.Use)
		assert.Equal(t, "short desc", cmd.Short)
		assert.Equal(t, "long description", cmd.Long)
		assert.NotNil(t, cmd.RunE)
	})

	t.Run("RunE returns error when config loading fails", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("HOME", t.TempDir())

		called := false
		businessFunc := func(ctx context.Context, cfg *config.Config) error {
			called = true
			return nil
		}

		wrapperFunc := func(ctx context.Context, fn BusinessFunc, cfg *config.Config) error {
			return fn(ctx, cfg)
		}

		cmd := CobraCommand("test", "short", "long", "v1.0.0", wrapperFunc, businessFunc)
		cmd.SetArgs([]string{})

		// no config file exists in the working directory
		err := cmd.Execute()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "loading config")
		assert.False(t, called)
	})
}

func TestStatusListener(t *testing.T) {
	tests := []struct {
		name  string
		state health.State
	}{
		{
			name: "empty state",
			state: health.State{
				Status:     "up",
				CheckState: map[string]health.CheckState{},
			},
		},
		{
			name: "passing checks",
			state: health.State{
				Status: "up",
				CheckState: map[string]health.CheckState{
					"valkey": {Status: "up"},
				},
			},
		},
		{
			name: "failing checks",
			state: health.State{
				Status: "down",
				CheckState: map[string]health.CheckState{
					"valkey": {Status: "down", Result: errors.New("connection refused")},
					"users":  {Status: "up"},
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				statusListener(t.Context(), tt.state)
			})
		})
	}
}

func TestHealthStatusTimeout(t *testing.T) {
	assert.Equal(t, 5*time.Second, healthStatusTimeout)
}

func TestPrint(t *testing.T) {
	type item struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
		Note  string `json:"note,omitempty"`
	}

	tests := []struct {
		name   string
		format OutputFormat
		want   string
	}{
		{
			name:   "json",
			format: OutputJSON,
			want:   "{\n  \"id\": 7,\n  \"title\": \"Fix sink\"\n}\n",
		},
		{
			name:   "default is json",
			format: "",
			want:   "{\n  \"id\": 7,\n  \"title\": \"Fix sink\"\n}\n",
		},
		{
			name:   "yaml",
			format: OutputYAML,
			want:   "id: 7\ntitle: Fix sink\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Print(&buf, tt.format, item{ID: 7, Title: "Fix sink"}))
			assert.Equal(t, tt.want, buf.String())
		})
	}

	t.Run("unknown format", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Error(t, Print(&buf, "xml", item{}))
	})
}

func ExampleCobraCommand() {
	businessFunc := func(ctx context.Context, cfg *config.Config) error {
		fmt.Println("Running business logic")
		return nil
	}

	wrapperFunc := func(ctx context.Context, fn BusinessFunc, cfg *config.Config) error {
		fmt.Println("Wrapper function called")
		return fn(ctx, cfg)
	}

	cmd := CobraCommand(
		"example",
		"Example command",
		"This is an example of how to use CobraCommand",
		"v1.0.0",
		wrapperFunc,
		businessFunc,
	)

	fmt.Printf("Command use: %s\n", cmd.Use)
	// Output: Command use: example
}

func TestReadInput(t *testing.T) {
	type request struct {
		Title  string  `json:"title"`
		Budget float64 `json:"budget,omitempty"`
	}

	t.Run("yaml from stdin", func(t *testing.T) {
		var got request
		require.NoError(t, ReadInput("-", strings.NewReader("title: Fix sink\nbudget: 40\n"), &got))
		assert.Equal(t, request{Title: "Fix sink", Budget: 40}, got)
	})

	t.Run("json file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "task.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"title":"Paint fence","budget":120.5}`), 0o600))

		var got request
		require.NoError(t, ReadInput(path, nil, &got))
		assert.Equal(t, request{Title: "Paint fence", Budget: 120.5}, got)
	})

	t.Run("missing file", func(t *testing.T) {
		var got request
		assert.ErrorContains(t, ReadInput(filepath.Join(t.TempDir(), "nope.yaml"), nil, &got), "reading input")
	})
}
