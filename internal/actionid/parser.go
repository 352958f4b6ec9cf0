package actionid

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	nameRegex  = regexp.MustCompile(`^[A-Za-z0-9_./-]+$`)
	keyRegex   = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
	valueRegex = regexp.MustCompile(`^[^,\]=\[]*$`)
)

// isValidName rejects names that would be confusing as directory slugs.
func isValidName(name string) bool {
	if name == "." || name == ".." || name == "-" {
		return false
	}
	return nameRegex.MatchString(name)
}

// Parse creates an ID from its text form. Qualifiers may appear in any order.
func Parse(raw string) (ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ID{}, fmt.Errorf("action identifier cannot be empty")
	}

	name, rest, hasQualifiers := strings.Cut(raw, "[")
	if !isValidName(name) {
		return ID{}, fmt.Errorf("invalid action name %q", name)
	}
	if !hasQualifiers {
		return ID{Name: name}, nil
	}
	if !strings.HasSuffix(rest, "]") {
		return ID{}, fmt.Errorf("unterminated qualifier list in %q", raw)
	}
	body := strings.TrimSuffix(rest, "]")
	if strings.TrimSpace(body) == "" {
		return ID{Name: name}, nil
	}

	q := make(Qualifiers)
	for _, pair := range strings.Split(body, ",") {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if !ok {
			return ID{}, fmt.Errorf("qualifier %q in %q must be key=value", pair, raw)
		}
		if err := ValidateQualifier(k, v); err != nil {
			return ID{}, fmt.Errorf("%q: %w", raw, err)
		}
		if _, dup := q[k]; dup {
			return ID{}, fmt.Errorf("duplicate qualifier key %q in %q", k, raw)
		}
		q[k] = v
	}
	return ID{Name: name, Qualifiers: q}, nil
}

// MustParse is Parse for literals in code and tests. It panics on error.
func MustParse(raw string) ID {
	id, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return id
}

// ValidateName checks a bare action name.
func ValidateName(name string) error {
	if !isValidName(name) {
		return fmt.Errorf("invalid action name %q", name)
	}
	return nil
}

// ValidateQualifier checks a single key/value pair.
func ValidateQualifier(key, value string) error {
	if !keyRegex.MatchString(key) {
		return fmt.Errorf("invalid qualifier key %q", key)
	}
	if !valueRegex.MatchString(value) {
		return fmt.Errorf("invalid qualifier value %q for key %q", value, key)
	}
	return nil
}
