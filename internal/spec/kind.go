package spec

import "fmt"

// Kind selects which driver executes an action. The set is closed.
type Kind int

const (
	// KindUnknown is the zero value and never valid on a built spec.
	KindUnknown Kind = iota
	// KindBuild runs configure and build command sequences.
	KindBuild
	// KindTest runs commands and compares their exit codes with an expectation.
	KindTest
	// KindInstall runs commands with DESTDIR pointing into the sandbox.
	KindInstall
)

var kindNames = map[Kind]string{
	KindBuild:   "build",
	KindTest:    "test",
	KindInstall: "install",
}

// Kinds returns every valid kind, in declaration order.
func Kinds() []Kind {
	return []Kind{KindBuild, KindTest, KindInstall}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Valid reports whether k is a member of the closed kind set.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind maps a kind tag to its Kind.
func ParseKind(tag string) (Kind, error) {
	for k, name := range kindNames {
		if name == tag {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown action kind %q", tag)
}
