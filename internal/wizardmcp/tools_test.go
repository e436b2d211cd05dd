package wizardmcp

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/smartlib/libreg/internal/library"
	"github.com/smartlib/libreg/internal/preview"
	"github.com/smartlib/libreg/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR")

type testEnv struct {
	srv       *Server
	previews  *preview.Registry
	submitted []wizard.Payload
	submitErr error
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{previews: preview.NewRegistry()}
	ctrl, err := wizard.New(wizard.Options{
		Steps: library.Steps(library.DefaultThresholds()),
		Submit: func(ctx context.Context, p wizard.Payload) error {
			env.submitted = append(env.submitted, p)
			return env.submitErr
		},
		Previews: env.previews,
	})
	require.NoError(t, err)
	t.Cleanup(ctrl.Close)
	env.srv = New(ctrl, 1<<20)
	return env
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: args}}
	res, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func (e *testEnv) set(t *testing.T, step, field, value string) {
	t.Helper()
	_, isErr := call(t, e.srv.handleSetField, map[string]any{"step": step, "field": field, "value": value})
	require.False(t, isErr, "%s.%s", step, field)
}

func TestContinueRejectsIncompleteStep(t *testing.T) {
	env := setup(t)

	text, isErr := call(t, env.srv.handleContinue, map[string]any{"step": "details"})
	assert.True(t, isErr)
	assert.Equal(t, wizard.MsgIncompleteStep, text)

	env.set(t, library.StepDetails, library.FieldName, "Riverside")
	env.set(t, library.StepDetails, library.FieldAddress, "4 Quay Road")

	text, isErr = call(t, env.srv.handleContinue, map[string]any{"step": float64(0)})
	require.False(t, isErr, text)
	assert.Contains(t, text, "now on picture")
}

func TestSetField_Errors(t *testing.T) {
	env := setup(t)

	tests := []struct {
		name string
		args map[string]any
	}{
		{"no args", nil},
		{"unknown step", map[string]any{"step": "billing", "field": "x", "value": "y"}},
		{"unknown field", map[string]any{"step": "details", "field": "color", "value": "red"}},
		{"missing value", map[string]any{"step": "details", "field": library.FieldName}},
		{"fractional index", map[string]any{"step": 1.5, "field": library.FieldName, "value": "x"}},
		{"index out of range", map[string]any{"step": float64(9), "field": library.FieldName, "value": "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, isErr := call(t, env.srv.handleSetField, tt.args)
			assert.True(t, isErr)
		})
	}
}

func TestStateMasksSecrets(t *testing.T) {
	env := setup(t)
	env.set(t, "3", library.FieldPassword, "hunter22")
	env.set(t, library.StepAccount, library.FieldUsername, "riverside")

	text, isErr := call(t, env.srv.handleState, nil)
	require.False(t, isErr)
	assert.NotContains(t, text, "hunter22")
	assert.Contains(t, text, "********")

	var v stateView
	require.NoError(t, json.Unmarshal([]byte(text), &v))
	require.Len(t, v.Steps, 4)
	assert.Equal(t, "details", v.Active)
	assert.Equal(t, "riverside", v.Steps[3].Fields[library.FieldUsername])
}

func TestStageLogo(t *testing.T) {
	env := setup(t)

	text, isErr := call(t, env.srv.handleStageLogo, map[string]any{"path": writeFile(t, "notes.txt", []byte("hello"))})
	assert.True(t, isErr)
	assert.Equal(t, wizard.MsgInvalidAsset, text)
	assert.Zero(t, env.previews.Live())

	_, isErr = call(t, env.srv.handleStageLogo, map[string]any{"path": "/does/not/exist.png"})
	assert.True(t, isErr)

	logo := writeFile(t, "logo.png", pngHeader)
	text, isErr = call(t, env.srv.handleStageLogo, map[string]any{"path": logo})
	require.False(t, isErr, text)
	assert.Contains(t, text, "blob:")

	_, isErr = call(t, env.srv.handleStageLogo, map[string]any{"path": logo})
	require.False(t, isErr)
	assert.Equal(t, 1, env.previews.Live(), "replacing revokes the old handle")

	text, _ = call(t, env.srv.handleState, nil)
	assert.Contains(t, text, "logo.png")

	_, isErr = call(t, env.srv.handleClearLogo, nil)
	require.False(t, isErr)
	assert.Zero(t, env.previews.Live())
}

func TestFocusStep(t *testing.T) {
	env := setup(t)
	text, isErr := call(t, env.srv.handleFocus, map[string]any{"step": "account"})
	require.False(t, isErr)
	assert.Equal(t, "now on account", text)

	state, _ := call(t, env.srv.handleState, nil)
	var v stateView
	require.NoError(t, json.Unmarshal([]byte(state), &v))
	assert.Equal(t, "account", v.Active)
	assert.InDelta(t, 100, v.Progress, 0.001, "progress follows the active step")
}

func fillAll(t *testing.T, env *testEnv) {
	env.set(t, library.StepDetails, library.FieldName, "Riverside")
	env.set(t, library.StepDetails, library.FieldAddress, "4 Quay Road")
	env.set(t, library.StepPolicy, library.FieldPenaltyPerDay, "0.5")
	env.set(t, library.StepPolicy, library.FieldBorrowLimit, "3")
	env.set(t, library.StepAccount, library.FieldUsername, "riverside")
	env.set(t, library.StepAccount, library.FieldEmail, "desk@riverside.org")
	env.set(t, library.StepAccount, library.FieldPassword, "hunter22")
	env.set(t, library.StepAccount, library.FieldConfirm, "hunter22")
	_, isErr := call(t, env.srv.handleStageLogo, map[string]any{"path": writeFile(t, "logo.png", pngHeader)})
	require.False(t, isErr)
}

func TestSubmit(t *testing.T) {
	env := setup(t)

	text, isErr := call(t, env.srv.handleSubmit, nil)
	assert.True(t, isErr)
	assert.Equal(t, wizard.MsgIncompleteWizard, text)
	assert.Empty(t, env.submitted)

	fillAll(t, env)

	env.submitErr = errors.New("backend down")
	text, isErr = call(t, env.srv.handleSubmit, nil)
	assert.True(t, isErr)
	assert.Contains(t, text, "backend down")

	env.submitErr = nil
	text, isErr = call(t, env.srv.handleSubmit, nil)
	require.False(t, isErr)
	assert.Equal(t, MsgRegistered, text)
	require.Len(t, env.submitted, 2)
	assert.Equal(t, "Riverside", env.submitted[1].Field(library.StepDetails, library.FieldName))
}

func TestConcurrentCalls(t *testing.T) {
	env := setup(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: map[string]any{
				"step": "details", "field": library.FieldName, "value": "Riverside",
			}}}
			_, _ = env.srv.handleSetField(context.Background(), req)
			_, _ = env.srv.handleState(context.Background(), mcp.CallToolRequest{})
		}()
	}
	wg.Wait()

	text, _ := call(t, env.srv.handleState, nil)
	assert.Contains(t, text, "Riverside")
}

func TestStartStop(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	port, err := env.srv.Start(ctx, 0)
	require.NoError(t, err)
	assert.NotZero(t, port)
	assert.Contains(t, env.srv.URL(), "/mcp")

	_, err = env.srv.Start(ctx, 0)
	require.Error(t, err)

	require.NoError(t, env.srv.Stop(ctx))
	require.NoError(t, env.srv.Stop(ctx))
}

func TestStopWhileToolCallHoldsWizard(t *testing.T) {
	env := setup(t)
	_, err := env.srv.Start(context.Background(), 0)
	require.NoError(t, err)

	// A tool call in progress owns the wizard lock.
	env.srv.mu.Lock()
	defer env.srv.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- env.srv.Stop(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Stop blocked on the wizard lock")
	}
}
