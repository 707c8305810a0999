package app

import (
	"github.com/vk/runbookgo/internal/registry"
	"github.com/vk/runbookgo/modules/delay"
	"github.com/vk/runbookgo/modules/exec"
	"github.com/vk/runbookgo/modules/http_request"
	"github.com/vk/runbookgo/modules/set_variable"
	"github.com/vk/runbookgo/modules/variables"
)

// coreModules is the definitive list of all task and variable factories
// compiled into the runbookgo binary.
var coreModules = []registry.Module{
	&exec.Module{},
	&set_variable.Module{},
	&delay.Module{},
	&http_request.Module{},
	&variables.Module{},
}
