package app

import (
	"github.com/specialistvlad/buildgraph/internal/registry"
	"github.com/specialistvlad/buildgraph/modules/general"
	"github.com/specialistvlad/buildgraph/modules/shell"
	"github.com/specialistvlad/buildgraph/modules/workspace"
)

// coreModules is the definitive list of all rule class modules that are
// compiled into the buildgraph binary.
var coreModules = []registry.Module{
	&general.Module{},
	&shell.Module{},
	&workspace.Module{},
}
