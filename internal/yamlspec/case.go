package yamlspec

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

const casePrefix = "case_"

var placeholderRegex = regexp.MustCompile(`%\(([A-Za-z0-9_]+)\)s|%%`)

// CaseParser resolves case_ branches and placeholders in a decoded YAML
// document. A parser is single-use: its state accumulates top-level values,
// which case_ keys may select on alongside the selectors.
type CaseParser struct {
	selectors map[string]string
	state     map[string]any
	// keys records which top-level entries came from the document, so the
	// selectors themselves are not echoed back.
	keys map[string]struct{}
}

// NewCaseParser returns a parser seeded with the given selector values.
func NewCaseParser(selectors map[string]string) *CaseParser {
	state := make(map[string]any, len(selectors))
	for k, v := range selectors {
		state[k] = v
	}
	return &CaseParser{selectors: selectors, state: state, keys: make(map[string]struct{})}
}

// Parse evaluates doc, which must be a mapping, and returns the resolved
// mapping.
func (p *CaseParser) Parse(doc map[string]any) (map[string]any, error) {
	if _, err := p.parseMap(doc, p.state, true); err != nil {
		return nil, err
	}
	out := make(map[string]any, len(p.keys))
	for k := range p.keys {
		out[k] = p.state[k]
	}
	return out, nil
}

// parseMap merges data into cursor and returns the value the mapping
// evaluates to. That is cursor itself unless a case branch resolved to a
// scalar or a list.
func (p *CaseParser) parseMap(data, cursor map[string]any, top bool) (any, error) {
	for _, key := range orderedKeys(data) {
		value := data[key]

		if sel, ok := strings.CutPrefix(key, casePrefix); ok {
			branch, found, err := p.selectBranch(sel, value)
			if err != nil {
				return nil, err
			}
			if !found {
				continue
			}
			sub, isMap := branch.(map[string]any)
			if !isMap {
				if len(data) != 1 {
					return nil, fmt.Errorf("%s: a branch with a non-mapping value must be the only key", key)
				}
				return p.format(branch)
			}
			if _, err := p.parseMap(sub, cursor, top); err != nil {
				return nil, err
			}
			continue
		}

		realKey := strings.TrimSuffix(strings.TrimPrefix(key, "+"), "+")
		var parsed any
		var err error
		if sub, isMap := value.(map[string]any); isMap {
			target, ok := cursor[realKey].(map[string]any)
			if !ok {
				target = make(map[string]any)
			}
			parsed, err = p.parseMap(sub, target, false)
		} else {
			parsed, err = p.format(value)
		}
		if err != nil {
			return nil, err
		}
		if err := update(cursor, key, realKey, parsed); err != nil {
			return nil, err
		}
		if top {
			p.keys[realKey] = struct{}{}
		}
	}
	return cursor, nil
}

// selectBranch picks the branch of a case_<sel> mapping. A key equal to the
// selector value wins. Otherwise keys are tried as anchored regular
// expressions and the longest matching pattern wins, ties going to the
// lexically smaller one.
func (p *CaseParser) selectBranch(sel string, value any) (any, bool, error) {
	branches, ok := value.(map[string]any)
	if !ok {
		return nil, false, fmt.Errorf("%s%s: expected a mapping of branches, got %T", casePrefix, sel, value)
	}
	raw, ok := p.state[sel]
	if !ok {
		return nil, false, fmt.Errorf("%s%s: unknown selector %q", casePrefix, sel, sel)
	}
	selValue, ok := scalarString(raw)
	if !ok {
		return nil, false, fmt.Errorf("%s%s: selector value is not a scalar", casePrefix, sel)
	}

	if b, ok := branches[selValue]; ok {
		return b, true, nil
	}
	patterns := slices.SortedFunc(maps.Keys(branches), func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})
	for _, pattern := range patterns {
		re, err := regexp.Compile("^(?:" + pattern + ")$")
		if err != nil {
			return nil, false, fmt.Errorf("%s%s: invalid pattern %q: %w", casePrefix, sel, pattern, err)
		}
		if re.MatchString(selValue) {
			return branches[pattern], true, nil
		}
	}
	return nil, false, nil
}

// format substitutes placeholders in strings, recursing into lists and
// mappings. Mappings inside lists are parsed as fresh documents so they may
// hold case_ keys of their own.
func (p *CaseParser) format(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return p.formatString(v), nil
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			var err error
			if m, ok := elem.(map[string]any); ok {
				out[i], err = p.parseMap(m, make(map[string]any), false)
			} else {
				out[i], err = p.format(elem)
			}
			if err != nil {
				return nil, err
			}
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, elem := range v {
			f, err := p.format(elem)
			if err != nil {
				return nil, err
			}
			out[k] = f
		}
		return out, nil
	default:
		return value, nil
	}
}

// formatString replaces %(name)s with the selector value and %% with %. It
// leaves s untouched when it references an unknown selector.
func (p *CaseParser) formatString(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	missing := false
	out := placeholderRegex.ReplaceAllStringFunc(s, func(m string) string {
		if m == "%%" {
			return "%"
		}
		name := m[2 : len(m)-2]
		v, ok := p.selectors[name]
		if !ok {
			missing = true
			return m
		}
		return v
	})
	if missing {
		return s
	}
	return out
}

// update stores parsed under realKey. A +key appends to and a key+ prepends
// to an existing list or string; both merge into an existing mapping.
func update(cursor map[string]any, key, realKey string, parsed any) error {
	existing, ok := cursor[realKey]
	if !ok || key == realKey {
		cursor[realKey] = parsed
		return nil
	}

	appendMode := strings.HasPrefix(key, "+")
	switch cur := existing.(type) {
	case map[string]any:
		add, ok := parsed.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: cannot merge %T into a mapping", key, parsed)
		}
		maps.Copy(cur, add)
	case []any:
		add, ok := parsed.([]any)
		if !ok {
			add = []any{parsed}
		}
		if appendMode {
			cursor[realKey] = append(slices.Clone(cur), add...)
		} else {
			cursor[realKey] = append(slices.Clone(add), cur...)
		}
	case string:
		add, ok := parsed.(string)
		if !ok {
			return fmt.Errorf("%s: cannot combine %T with a string", key, parsed)
		}
		if appendMode {
			cursor[realKey] = cur + add
		} else {
			cursor[realKey] = add + cur
		}
	default:
		return fmt.Errorf("%s: cannot extend a value of type %T", key, existing)
	}
	return nil
}

// orderedKeys returns plain keys first, then case_ keys, each group sorted.
// YAML decoding loses the document order, so branches always apply on top of
// the plain values of the same mapping.
func orderedKeys(data map[string]any) []string {
	var plain, cases []string
	for k := range data {
		if strings.HasPrefix(k, casePrefix) {
			cases = append(cases, k)
		} else {
			plain = append(plain, k)
		}
	}
	slices.Sort(plain)
	slices.Sort(cases)
	return append(plain, cases...)
}

func scalarString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	default:
		return "", false
	}
}
