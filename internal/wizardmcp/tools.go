package wizardmcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/smartlib/libreg/internal/library"
	"github.com/smartlib/libreg/internal/preview"
	"github.com/smartlib/libreg/internal/wizard"
)

// MsgRegistered is returned by a successful submit.
const MsgRegistered = "Registration complete!"

func (s *Server) registerTools() {
	stepArg := mcp.WithString("step", mcp.Required(),
		mcp.Description("Step key (details, picture, policy, account) or zero-based index"),
	)

	s.mcpServer.AddTool(
		mcp.NewTool("wizard-state",
			mcp.WithDescription("Show the wizard: steps, fields, completion, progress and the current error"),
		),
		s.handleState,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("set-field",
			mcp.WithDescription("Set one field of a step"),
			stepArg,
			mcp.WithString("field", mcp.Required(), mcp.Description("Field name")),
			mcp.WithString("value", mcp.Required(), mcp.Description("New value")),
		),
		s.handleSetField,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("continue-step",
			mcp.WithDescription("Validate a step and move to the next one"),
			stepArg,
		),
		s.handleContinue,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("focus-step",
			mcp.WithDescription("Jump to a step without validating it"),
			stepArg,
		),
		s.handleFocus,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("stage-logo",
			mcp.WithDescription("Stage an image file from disk as the library logo"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Path to an image file")),
		),
		s.handleStageLogo,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("clear-logo",
			mcp.WithDescription("Remove the staged logo"),
		),
		s.handleClearLogo,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("submit",
			mcp.WithDescription("Submit the registration once every step is valid"),
		),
		s.handleSubmit,
	)
}

// stateView is the JSON shape returned by wizard-state.
type stateView struct {
	Active     string     `json:"active"`
	Progress   float64    `json:"progress"`
	Error      string     `json:"error,omitempty"`
	Submitting bool       `json:"submitting,omitempty"`
	Steps      []stepView `json:"steps"`
	Logo       string     `json:"logo,omitempty"`
}

type stepView struct {
	Key       string            `json:"key"`
	Label     string            `json:"label"`
	Completed bool              `json:"completed"`
	Fields    map[string]string `json:"fields,omitempty"`
}

func (s *Server) handleState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	view := s.view()
	s.mu.Unlock()

	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode state: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// view must be called with mu held.
func (s *Server) view() stateView {
	snap := s.ctrl.Snapshot()
	steps := s.ctrl.Steps()

	v := stateView{
		Active:     steps[snap.ActiveIndex].Key,
		Progress:   snap.Progress,
		Error:      snap.Error,
		Submitting: snap.Submitting,
	}
	for i, step := range steps {
		sv := stepView{Key: step.Key, Label: step.Label, Completed: snap.IsCompleted(i)}
		for _, f := range library.FieldsFor(step.Key) {
			val := snap.Data[step.Key].Field(f.Name)
			if f.Secret && val != "" {
				val = strings.Repeat("*", len([]rune(val)))
			}
			if sv.Fields == nil {
				sv.Fields = make(map[string]string)
			}
			sv.Fields[f.Name] = val
		}
		v.Steps = append(v.Steps, sv)
	}
	if a, ok := snap.Data[library.StepPicture].Assets[library.SlotLogo]; ok {
		v.Logo = fmt.Sprintf("%s (%s, %d bytes)", a.Name, a.MediaType, len(a.Data))
	}
	return v
}

func (s *Server) handleSetField(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultError("no arguments provided"), nil
	}
	field, _ := args["field"].(string)
	value, ok := args["value"].(string)
	if field == "" || !ok {
		return mcp.NewToolResultError("'field' and 'value' are required strings"), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.stepIndex(args["step"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	key := s.ctrl.Steps()[index].Key
	if !knownField(key, field) {
		return mcp.NewToolResultError(fmt.Sprintf("step %s has no field %q", key, field)), nil
	}
	if err := s.ctrl.OnFieldChange(key, field, value); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s.%s updated", key, field)), nil
}

func (s *Server) handleContinue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.stepIndex(request.GetArguments()["step"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.ctrl.OnContinueClicked(index); err != nil {
		var stepErr *wizard.StepValidationFailedError
		if errors.As(err, &stepErr) {
			return mcp.NewToolResultError(wizard.MsgIncompleteStep), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	snap := s.ctrl.Snapshot()
	return mcp.NewToolResultText(fmt.Sprintf("step %s complete, now on %s (%.0f%%)",
		s.ctrl.Steps()[index].Key, s.ctrl.Steps()[snap.ActiveIndex].Key, snap.Progress)), nil
}

func (s *Server) handleFocus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.stepIndex(request.GetArguments()["step"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	// Without a viewport the focus request is applied directly.
	s.ctrl.RequestFocus(index)
	s.ctrl.SetActiveIndex(index)
	return mcp.NewToolResultText(fmt.Sprintf("now on %s", s.ctrl.Steps()[index].Key)), nil
}

func (s *Server) handleStageLogo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, _ := request.GetArguments()["path"].(string)
	asset, err := preview.Load(path, s.maxLogoBytes)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ctrl.OnFileSelected(library.SlotLogo, asset); err != nil {
		if errors.Is(err, wizard.ErrInvalidAssetType) {
			return mcp.NewToolResultError(wizard.MsgInvalidAsset), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	h, _ := s.ctrl.Preview(library.SlotLogo)
	return mcp.NewToolResultText(fmt.Sprintf("logo %s staged as %s", asset.Name, h)), nil
}

func (s *Server) handleClearLogo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ctrl.OnClearAsset(library.SlotLogo)
	return mcp.NewToolResultText("logo cleared"), nil
}

func (s *Server) handleSubmit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ctrl.OnSubmitClicked(ctx); err != nil {
		if errors.Is(err, wizard.ErrIncompleteWizard) {
			return mcp.NewToolResultError(wizard.MsgIncompleteWizard), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("submission failed: %v", err)), nil
	}
	return mcp.NewToolResultText(MsgRegistered), nil
}

// stepIndex resolves a step argument given as key, index string or number.
// Must be called with mu held.
func (s *Server) stepIndex(raw any) (int, error) {
	n := s.ctrl.StepCount()
	switch v := raw.(type) {
	case float64:
		if v != float64(int(v)) || int(v) < 0 || int(v) >= n {
			return 0, fmt.Errorf("step index %v out of range", v)
		}
		return int(v), nil
	case string:
		if i, ok := s.ctrl.IndexOf(v); ok {
			return i, nil
		}
		if i, err := strconv.Atoi(v); err == nil && i >= 0 && i < n {
			return i, nil
		}
		return 0, fmt.Errorf("unknown step %q", v)
	case nil:
		return 0, errors.New("missing 'step' parameter")
	default:
		return 0, fmt.Errorf("invalid step %v", v)
	}
}

func knownField(step, field string) bool {
	for _, f := range library.FieldsFor(step) {
		if f.Name == field {
			return true
		}
	}
	return false
}
