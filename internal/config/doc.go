// Package config defines how action specifications are loaded from disk.
//
// A Loader turns files into validated spec.ActionSpec values. Concrete loaders
// live in their own packages (hcl, yamlspec); MultiLoader routes each file to
// the loader registered for its extension, so one run can mix formats.
package config
