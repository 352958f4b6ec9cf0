package driver

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/specialistvlad/actiongrid/internal/spec"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// recipe gives typed access to the attributes of a recipe value.
type recipe struct {
	s   *spec.ActionSpec
	val cty.Value
}

func newRecipe(s *spec.ActionSpec, allowed ...string) (*recipe, error) {
	r := &recipe{s: s, val: s.Recipe()}
	for _, name := range r.names() {
		if !slices.Contains(allowed, name) {
			return nil, r.errorf(nil, "unsupported recipe attribute %q", name)
		}
	}
	return r, nil
}

func (r *recipe) errorf(err error, format string, args ...any) *DriverError {
	return &DriverError{Kind: r.s.Kind(), ID: r.s.ID(), Reason: fmt.Sprintf(format, args...), Err: err}
}

func (r *recipe) names() []string {
	var names []string
	switch {
	case r.val.Type().IsObjectType():
		for name := range r.val.Type().AttributeTypes() {
			names = append(names, name)
		}
	case r.val.Type().IsMapType():
		for it := r.val.ElementIterator(); it.Next(); {
			k, _ := it.Element()
			names = append(names, k.AsString())
		}
	}
	slices.Sort(names)
	return names
}

func (r *recipe) attr(name string) (cty.Value, bool) {
	switch {
	case r.val.Type().IsObjectType():
		if r.val.Type().HasAttribute(name) {
			v := r.val.GetAttr(name)
			return v, !v.IsNull()
		}
	case r.val.Type().IsMapType():
		key := cty.StringVal(name)
		if r.val.HasIndex(key).True() {
			v := r.val.Index(key)
			return v, !v.IsNull()
		}
	}
	return cty.NilVal, false
}

// decode converts attribute name into target, which must be a pointer.
// Missing optional attributes leave target untouched.
func (r *recipe) decode(name string, target any, required bool) error {
	v, ok := r.attr(name)
	if !ok {
		if required {
			return r.errorf(nil, "missing required recipe attribute %q", name)
		}
		return nil
	}

	ty, err := gocty.ImpliedType(reflect.ValueOf(target).Elem().Interface())
	if err != nil {
		return r.errorf(err, "cannot decode %q", name)
	}
	converted, err := convert.Convert(v, ty)
	if err != nil {
		return r.errorf(err, "attribute %q must be %s", name, ty.FriendlyName())
	}
	if err := gocty.FromCtyValue(converted, target); err != nil {
		return r.errorf(err, "cannot decode %q", name)
	}
	return nil
}

// commands decodes a list of argv lists and rejects empty argv.
func (r *recipe) commands(name string, required bool) ([][]string, error) {
	var cmds [][]string
	if err := r.decode(name, &cmds, required); err != nil {
		return nil, err
	}
	for i, argv := range cmds {
		if len(argv) == 0 || argv[0] == "" {
			return nil, r.errorf(nil, "%s[%d] is an empty command", name, i)
		}
	}
	if required && len(cmds) == 0 {
		return nil, r.errorf(nil, "%q must list at least one command", name)
	}
	return cmds, nil
}
