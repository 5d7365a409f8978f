package app

import (
	"io"

	"github.com/vk/bpscript/internal/registry"
	"github.com/vk/bpscript/modules/arith"
	"github.com/vk/bpscript/modules/constants"
	"github.com/vk/bpscript/modules/events"
	"github.com/vk/bpscript/modules/flow"
	"github.com/vk/bpscript/modules/host"
	"github.com/vk/bpscript/modules/logic"
	"github.com/vk/bpscript/modules/print"
	"github.com/vk/bpscript/modules/variables"
	"github.com/vk/bpscript/modules/vector"
)

// coreModules is the definitive list of all modules that are compiled into
// the bpscript binary. Print output goes to out.
func coreModules(out io.Writer) []registry.Module {
	return []registry.Module{
		&events.Module{},
		&flow.Module{},
		&print.Module{Out: out},
		&arith.Module{},
		&logic.Module{},
		&vector.Module{},
		&constants.Module{},
		&variables.Module{},
		&host.Module{},
	}
}
