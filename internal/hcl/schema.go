package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot is the top-level structure of a spec file.
type fileRoot struct {
	Actions []*actionBlock `hcl:"action,block"`
}

// actionBlock represents an `action` block.
type actionBlock struct {
	Kind       string            `hcl:"kind,label"`
	Name       string            `hcl:"name,label"`
	Qualifiers map[string]string `hcl:"qualifiers,optional"`
	DependsOn  []string          `hcl:"depends_on,optional"`
	Env        map[string]string `hcl:"env,optional"`
	Timeout    string            `hcl:"timeout,optional"`
	KillGrace  string            `hcl:"kill_grace,optional"`
	Recipe     *recipeBlock      `hcl:"recipe,block"`
	DefRange   hcl.Range         `hcl:",def_range"`
}

// recipeBlock holds the driver-specific attributes, evaluated lazily.
type recipeBlock struct {
	Body hcl.Body `hcl:",remain"`
}
