package nodepack

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/bpscript/internal/blueprint"
	"github.com/vk/bpscript/internal/ctxlog"
	"github.com/vk/bpscript/internal/fsutil"
	"github.com/vk/bpscript/internal/registry"
	"github.com/vk/bpscript/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// Extension is the file extension node packs are discovered by.
const Extension = ".hcl"

var (
	// ErrUnknownBehavior is returned when a node names a behaviour the
	// registry has not catalogued.
	ErrUnknownBehavior = errors.New("unknown behavior")
	// ErrInvalidDefinition is returned for structurally invalid node blocks.
	ErrInvalidDefinition = errors.New("invalid node definition")
)

// fileRoot decodes every top-level block of a pack file.
type fileRoot struct {
	Nodes  []*nodeBlock `hcl:"node,block"`
	Remain hcl.Body     `hcl:",remain"`
}

type nodeBlock struct {
	Type        string         `hcl:"type,label"`
	NodeType    string         `hcl:"node_type,optional"`
	Title       string         `hcl:"title,optional"`
	Category    string         `hcl:"category,optional"`
	Description string         `hcl:"description,optional"`
	Color       string         `hcl:"color,optional"`
	Behavior    string         `hcl:"behavior,optional"`
	Data        hcl.Expression `hcl:"data,optional"`
	Inputs      []*socketBlock `hcl:"input,block"`
	Outputs     []*socketBlock `hcl:"output,block"`
}

type socketBlock struct {
	Name     string         `hcl:"name,label"`
	ID       string         `hcl:"id,optional"`
	Type     hcl.Expression `hcl:"type,optional"`
	Default  hcl.Expression `hcl:"default,optional"`
	Required bool           `hcl:"required,optional"`
	DataKey  string         `hcl:"data_key,optional"`
}

// Loader parses node packs and registers them into a registry.
type Loader struct {
	registry *registry.Registry
}

// NewLoader creates a loader that binds behaviours from, and registers
// definitions into, reg.
func NewLoader(reg *registry.Registry) *Loader {
	return &Loader{registry: reg}
}

// Load discovers every pack file under the given paths, which may be files
// or directories, and registers their definitions. Nothing is registered
// unless every file parses and binds.
func (l *Loader) Load(ctx context.Context, paths ...string) ([]*registry.Definition, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.CollectFiles(paths, Extension)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered node pack files.", "count", len(files))

	parser := hclparse.NewParser()
	var defs []*registry.Definition
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read node pack %s: %w", file, err)
		}
		parsed, err := l.parse(ctx, parser, file, src)
		if err != nil {
			return nil, err
		}
		defs = append(defs, parsed...)
	}

	l.register(ctx, defs)
	return defs, nil
}

// LoadSource parses and registers a single pack held in memory. filename is
// used in diagnostics and recorded as the definitions' source.
func (l *Loader) LoadSource(ctx context.Context, filename string, src []byte) ([]*registry.Definition, error) {
	defs, err := l.parse(ctx, hclparse.NewParser(), filename, src)
	if err != nil {
		return nil, err
	}
	l.register(ctx, defs)
	return defs, nil
}

func (l *Loader) register(ctx context.Context, defs []*registry.Definition) {
	for _, def := range defs {
		l.registry.Register(def)
	}
	if len(defs) > 0 {
		ctxlog.FromContext(ctx).Info("📦 Node packs loaded.", "definitions", len(defs))
	}
}

func (l *Loader) parse(ctx context.Context, parser *hclparse.Parser, filename string, src []byte) ([]*registry.Definition, error) {
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse node pack %s: %w", filename, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode node pack %s: %w", filename, diags)
	}

	defs := make([]*registry.Definition, 0, len(root.Nodes))
	for _, block := range root.Nodes {
		def, err := l.translate(ctx, block)
		if err != nil {
			return nil, fmt.Errorf("%s: node '%s': %w", filename, block.Type, err)
		}
		def.Source = filename
		defs = append(defs, def)
	}
	return defs, nil
}

func (l *Loader) translate(ctx context.Context, block *nodeBlock) (*registry.Definition, error) {
	logger := ctxlog.FromContext(ctx).With("type", block.Type)

	kind := blueprint.NodeKind(block.NodeType)
	if kind == "" {
		kind = blueprint.KindExec
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown node_type '%s'", ErrInvalidDefinition, block.NodeType)
	}

	def := &registry.Definition{
		Type:        block.Type,
		Kind:        kind,
		Title:       block.Title,
		Description: block.Description,
		Category:    block.Category,
		Color:       block.Color,
	}
	if def.Title == "" {
		def.Title = block.Type
	}

	data, err := evalData(block.Data)
	if err != nil {
		return nil, err
	}
	def.Data = data

	for _, s := range block.Inputs {
		spec, err := translateSocket(s, "_in")
		if err != nil {
			return nil, fmt.Errorf("input '%s': %w", s.Name, err)
		}
		def.Inputs = append(def.Inputs, spec)
	}
	for _, s := range block.Outputs {
		spec, err := translateSocket(s, "_out")
		if err != nil {
			return nil, fmt.Errorf("output '%s': %w", s.Name, err)
		}
		if spec.Default != nil {
			return nil, fmt.Errorf("%w: output '%s' cannot have a default", ErrInvalidDefinition, s.Name)
		}
		if spec.DataKey != "" {
			return nil, fmt.Errorf("%w: output '%s' cannot read node data", ErrInvalidDefinition, s.Name)
		}
		def.Outputs = append(def.Outputs, spec)
	}

	if block.Behavior != "" {
		behavior, ok := l.registry.Behavior(block.Behavior)
		if !ok {
			return nil, fmt.Errorf("%w: '%s'", ErrUnknownBehavior, block.Behavior)
		}
		def.Behavior = behavior
		def.BehaviorName = block.Behavior
	}

	logger.Debug("Translated node pack definition.", "kind", kind, "inputs", len(def.Inputs), "outputs", len(def.Outputs), "behavior", block.Behavior)
	return def, nil
}

// socketID derives the default socket id from a display name, as in
// "Is Down" -> "isdown_out".
func socketID(name, suffix string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "")) + suffix
}

func translateSocket(s *socketBlock, suffix string) (registry.SocketSpec, error) {
	spec := registry.SocketSpec{
		ID:       s.ID,
		Name:     s.Name,
		Required: s.Required,
		DataKey:  s.DataKey,
	}
	if spec.ID == "" {
		spec.ID = socketID(s.Name, suffix)
	}

	t, err := typeKeyword(s.Type)
	if err != nil {
		return spec, err
	}
	spec.Type = t

	if s.Default == nil {
		return spec, nil
	}
	raw, diags := s.Default.Value(nil)
	if diags.HasErrors() {
		return spec, fmt.Errorf("failed to evaluate default: %w", diags)
	}
	if raw.IsNull() {
		return spec, nil
	}
	if t == blueprint.TypeExec {
		return spec, fmt.Errorf("%w: exec sockets cannot have a default", ErrInvalidDefinition)
	}
	def, err := value.CoerceCty(raw, t)
	if err != nil {
		return spec, fmt.Errorf("invalid default: %w", err)
	}
	spec.Default = def
	return spec, nil
}

// typeKeyword reads a socket type written either as a bare keyword
// (type = float) or as a string (type = "float"). A missing type is any.
func typeKeyword(expr hcl.Expression) (blueprint.SocketType, error) {
	if expr == nil {
		return blueprint.TypeAny, nil
	}
	name := hcl.ExprAsKeyword(expr)
	if name == "" {
		v, diags := expr.Value(nil)
		if diags.HasErrors() {
			return "", fmt.Errorf("%w: type must be a keyword such as float: %s", ErrInvalidDefinition, diags.Error())
		}
		if v.IsNull() {
			return blueprint.TypeAny, nil
		}
		if v.Type() != cty.String {
			return "", fmt.Errorf("%w: type must be a keyword such as float", ErrInvalidDefinition)
		}
		name = v.AsString()
	}
	t := blueprint.SocketType(name)
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown socket type '%s'", ErrInvalidDefinition, name)
	}
	return t, nil
}

func evalData(expr hcl.Expression) (map[string]any, error) {
	if expr == nil {
		return nil, nil
	}
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to evaluate data: %w", diags)
	}
	if v.IsNull() {
		return nil, nil
	}
	if !v.Type().IsObjectType() && !v.Type().IsMapType() {
		return nil, fmt.Errorf("%w: data must be an object", ErrInvalidDefinition)
	}
	out, err := value.FromCty(v)
	if err != nil {
		return nil, fmt.Errorf("invalid data: %w", err)
	}
	data, _ := out.(map[string]any)
	return data, nil
}
