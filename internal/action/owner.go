package action

import (
	"strings"

	"github.com/vk/runbookgo/internal/model"
)

// Owner is the entity an action is declared on.
type Owner interface {
	// TaskTarget is the default execution target, or nil.
	TaskTarget() *model.Reference
	// HasDagTarget reports whether the DAG itself carries the task target.
	HasDagTarget() bool
	// SystemActions maps `__name__` function names to system action names.
	SystemActions() map[string]string
	// FragmentActions maps `__name__` function names to fragment action names.
	FragmentActions() map[string]string
}

// Classify derives the action name, type and criticality from the declared
// function name. Only names wrapped in double underscores are looked up, first
// in the owner's system table and then in its fragment table.
func Classify(funcName string, owner Owner) (name string, typ model.ActionType, critical bool) {
	name, typ = funcName, model.ActionUser
	if owner == nil {
		return name, typ, false
	}

	key := strings.ToLower(funcName)
	if len(key) < 4 || !strings.HasPrefix(key, "__") || !strings.HasSuffix(key, "__") {
		return name, typ, false
	}
	if mapped, ok := owner.SystemActions()[key]; ok {
		return mapped, model.ActionSystem, true
	}
	if mapped, ok := owner.FragmentActions()[key]; ok {
		return mapped, model.ActionFragment, false
	}
	return name, typ, false
}

func dagTarget(owner Owner) *model.Reference {
	if owner == nil || !owner.HasDagTarget() {
		return nil
	}
	return owner.TaskTarget()
}
