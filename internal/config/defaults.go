package config

// DefaultEntityName names the entity used when no configuration is given.
const DefaultEntityName = "default"

// StandardSystemActions is the system action table of a typical entity.
func StandardSystemActions() map[string]string {
	return map[string]string{
		"__create__":      "create",
		"__start__":       "start",
		"__restart__":     "restart",
		"__stop__":        "stop",
		"__delete__":      "delete",
		"__soft_delete__": "soft_delete",
	}
}

// DefaultEntity returns an entity without a default target that recognizes
// the standard system actions.
func DefaultEntity() *Entity {
	return &Entity{
		Name:                DefaultEntityName,
		DagTarget:           true,
		SystemActionNames:   StandardSystemActions(),
		FragmentActionNames: map[string]string{},
	}
}
