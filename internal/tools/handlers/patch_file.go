package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/filepatch/filepatch/internal/patch"
	"github.com/filepatch/filepatch/internal/pathguard"
	"github.com/filepatch/filepatch/internal/tools"
)

// PatchFileTool applies structured patches to a single file through
// the patch engine. This is the server's core editing tool; the
// simpler write/replace tools exist for coarse changes.
type PatchFileTool struct {
	engine *patch.Engine
	guard  *pathguard.Guard
}

// NewPatchFileTool creates a new patch_file tool handler.
func NewPatchFileTool(engine *patch.Engine, guard *pathguard.Guard) *PatchFileTool {
	return &PatchFileTool{engine: engine, guard: guard}
}

// Name returns the tool's name.
func (t *PatchFileTool) Name() string {
	return "patch_file"
}

// Kind returns ToolKindFunction.
func (t *PatchFileTool) Kind() tools.ToolKind {
	return tools.ToolKindFunction
}

// IsMutating returns true unless the invocation is a dry run.
func (t *PatchFileTool) IsMutating(invocation *tools.ToolInvocation) bool {
	dryRun, _ := invocation.OptionalBoolArg("dry_run", false)
	return !dryRun
}

// patchFileReport is the client-facing result shape.
type patchFileReport struct {
	Path string `json:"path"`
	patch.Result
	Error string `json:"error,omitempty"`
}

// Handle decodes the request, resolves the path, and runs the engine.
// Engine failures (ambiguity, missing context, out-of-range lines) are
// reported as tool-level failures with full per-patch detail so the
// caller can correct the request; they are never Go errors.
func (t *PatchFileTool) Handle(ctx context.Context, invocation *tools.ToolInvocation) (*tools.ToolOutput, error) {
	relPath, err := invocation.StringArg("path")
	if err != nil {
		return nil, err
	}
	if relPath == "" {
		return nil, tools.NewValidationError("path cannot be empty")
	}

	patches, err := decodePatches(invocation.Arguments["patches"])
	if err != nil {
		return nil, err
	}
	if len(patches) == 0 {
		return nil, tools.NewValidationError("patches cannot be empty")
	}

	dryRun, err := invocation.OptionalBoolArg("dry_run", false)
	if err != nil {
		return nil, err
	}
	createBackup, err := invocation.OptionalBoolArg("create_backup", false)
	if err != nil {
		return nil, err
	}

	absPath, err := t.guard.Resolve(relPath)
	if err != nil {
		report := patchFileReport{Path: relPath, Error: err.Error()}
		if errors.As(err, new(*pathguard.ErrTraversal)) {
			report.Error = string(patch.CodePathTraversal) + ": " + err.Error()
		}
		out := jsonOutput(report)
		success := false
		out.Success = &success
		return out, nil
	}

	result, err := t.engine.Apply(ctx, patch.Request{
		Path:         absPath,
		Patches:      patches,
		DryRun:       dryRun,
		CreateBackup: createBackup,
	})

	report := patchFileReport{Path: relPath}
	if result != nil {
		report.Result = *result
	}
	if err != nil {
		report.Error = err.Error()
		out := jsonOutput(report)
		success := false
		out.Success = &success
		return out, nil
	}
	return jsonOutput(report), nil
}

// decodePatches converts the raw JSON argument into typed patches,
// rejecting unknown fields so misspelled keys fail loudly instead of
// silently producing an invalid patch.
func decodePatches(raw interface{}) ([]patch.Patch, error) {
	if raw == nil {
		return nil, tools.NewValidationError("missing required argument: patches")
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, tools.NewValidationErrorf("patches is not valid JSON: %v", err)
	}
	dec := json.NewDecoder(bytes.NewReader(encoded))
	dec.DisallowUnknownFields()
	var patches []patch.Patch
	if err := dec.Decode(&patches); err != nil {
		return nil, tools.NewValidationErrorf("invalid patches: %v", err)
	}
	return patches, nil
}

func init() {
	tools.RegisterSpec(tools.SpecEntry{Name: "patch_file", Constructor: tools.NewPatchFileToolSpec})
}
