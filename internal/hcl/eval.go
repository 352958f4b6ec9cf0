package hcl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

var recipeFunctions = map[string]function.Function{
	"concat":    stdlib.ConcatFunc,
	"format":    stdlib.FormatFunc,
	"join":      stdlib.JoinFunc,
	"lower":     stdlib.LowerFunc,
	"split":     stdlib.SplitFunc,
	"trimspace": stdlib.TrimSpaceFunc,
	"upper":     stdlib.UpperFunc,
}

// evalContext exposes the identity of the action being decoded.
func evalContext(b *actionBlock) *hcl.EvalContext {
	qualifiers := cty.MapValEmpty(cty.String)
	if len(b.Qualifiers) > 0 {
		vals := make(map[string]cty.Value, len(b.Qualifiers))
		for k, v := range b.Qualifiers {
			vals[k] = cty.StringVal(v)
		}
		qualifiers = cty.MapVal(vals)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"action": cty.ObjectVal(map[string]cty.Value{
				"name":       cty.StringVal(b.Name),
				"kind":       cty.StringVal(b.Kind),
				"qualifiers": qualifiers,
			}),
		},
		Functions: recipeFunctions,
	}
}

// evalRecipe evaluates every attribute of the recipe block into one object.
func evalRecipe(b *actionBlock) (cty.Value, hcl.Diagnostics) {
	if b.Recipe == nil {
		return cty.EmptyObjectVal, nil
	}
	attrs, diags := b.Recipe.Body.JustAttributes()
	if diags.HasErrors() {
		return cty.NilVal, diags
	}

	ectx := evalContext(b)
	vals := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		v, valDiags := attr.Expr.Value(ectx)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			continue
		}
		vals[name] = v
	}
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	return cty.ObjectVal(vals), diags
}
