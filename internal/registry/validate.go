package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/bpscript/internal/blueprint"
	"github.com/vk/bpscript/internal/ctxlog"
)

// Validate checks every registered definition for consistency: known node
// kind, unique socket ids with known types, and node-pack definitions bound
// to a catalogued behaviour.
func (r *Registry) Validate(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, def := range r.All() {
		if def.Type == "" {
			errs = append(errs, "definition with empty type tag")
			continue
		}
		if !def.Kind.Valid() {
			errs = append(errs, fmt.Sprintf("definition '%s': unknown node kind '%s'", def.Type, def.Kind))
		}

		seen := make(map[string]struct{}, len(def.Inputs)+len(def.Outputs))
		for _, specs := range [][]SocketSpec{def.Inputs, def.Outputs} {
			for _, s := range specs {
				if s.ID == "" {
					errs = append(errs, fmt.Sprintf("definition '%s': socket '%s' has an empty id", def.Type, s.Name))
					continue
				}
				if _, dup := seen[s.ID]; dup {
					errs = append(errs, fmt.Sprintf("definition '%s': duplicate socket id '%s'", def.Type, s.ID))
				}
				seen[s.ID] = struct{}{}
				if !s.Type.Valid() {
					errs = append(errs, fmt.Sprintf("definition '%s': socket '%s' has unknown type '%s'", def.Type, s.ID, s.Type))
				}
			}
		}

		if def.BehaviorName != "" {
			if _, ok := r.Behavior(def.BehaviorName); !ok {
				errs = append(errs, fmt.Sprintf("definition '%s': behavior '%s' is not registered", def.Type, def.BehaviorName))
			}
		}

		if def.Behavior == nil && def.Kind == blueprint.KindExec {
			logger.Debug("Exec definition has no behavior and is generation-only.", "type", def.Type)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
