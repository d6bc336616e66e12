// Package tools provides the tool registry, routing, and
// specifications for the file-editing tool surface.
package tools

// ToolKind classifies the type of tool handler.
type ToolKind int

const (
	ToolKindFunction ToolKind = iota
)

// ToolOutput represents the result of tool execution. Content is the
// client-facing payload (JSON for structured tools, plain text for
// simple ones); Success distinguishes tool-level failure from
// protocol-level errors.
type ToolOutput struct {
	Content string `json:"content"`
	Success *bool  `json:"success,omitempty"`
}

// ToolInvocation provides context for tool execution. Arguments holds
// the decoded JSON arguments as generic values; handlers coerce and
// validate them.
type ToolInvocation struct {
	CallID    string                 `json:"call_id,omitempty"`
	ToolName  string                 `json:"tool_name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// StringArg extracts a required string argument.
func (inv *ToolInvocation) StringArg(name string) (string, error) {
	raw, ok := inv.Arguments[name]
	if !ok {
		return "", NewValidationErrorf("missing required argument: %s", name)
	}
	s, ok := raw.(string)
	if !ok {
		return "", NewValidationErrorf("%s must be a string", name)
	}
	return s, nil
}

// OptionalStringArg extracts an optional string argument, returning
// fallback when absent.
func (inv *ToolInvocation) OptionalStringArg(name, fallback string) (string, error) {
	raw, ok := inv.Arguments[name]
	if !ok {
		return fallback, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", NewValidationErrorf("%s must be a string", name)
	}
	return s, nil
}

// OptionalIntArg extracts an optional integer argument. JSON numbers
// arrive as float64; both forms are accepted.
func (inv *ToolInvocation) OptionalIntArg(name string, fallback int) (int, error) {
	raw, ok := inv.Arguments[name]
	if !ok {
		return fallback, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case float64:
		return int(v), nil
	default:
		return 0, NewValidationErrorf("%s must be an integer", name)
	}
}

// OptionalBoolArg extracts an optional boolean argument.
func (inv *ToolInvocation) OptionalBoolArg(name string, fallback bool) (bool, error) {
	raw, ok := inv.Arguments[name]
	if !ok {
		return fallback, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return false, NewValidationErrorf("%s must be a boolean", name)
	}
	return b, nil
}
