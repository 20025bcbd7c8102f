// Package resource parses namespaced resource identifiers such as
// "minecraft:the_nether".
package resource

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultNamespace is assumed when an identifier has no namespace part.
const DefaultNamespace = "minecraft"

// ErrInvalid is returned for identifiers with illegal characters or shape.
var ErrInvalid = errors.New("resource: invalid identifier")

// Location is a namespace-qualified identifier.
type Location struct {
	Namespace string
	Path      string
}

// New builds a Location after validating both parts.
func New(namespace, path string) (Location, error) {
	if !validNamespace(namespace) {
		return Location{}, fmt.Errorf("%w: namespace %q", ErrInvalid, namespace)
	}
	if !validPath(path) {
		return Location{}, fmt.Errorf("%w: path %q", ErrInvalid, path)
	}
	return Location{Namespace: namespace, Path: path}, nil
}

// MustParse is like Parse but panics on error.
// Use only in tests or for compile-time constants.
func MustParse(s string) Location {
	loc, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return loc
}

// Parse reads "namespace:path" or "path" (namespace defaults to minecraft).
// Namespaces allow [a-z0-9_.-]; paths additionally allow '/'.
func Parse(s string) (Location, error) {
	namespace, path := DefaultNamespace, s
	if i := strings.IndexByte(s, ':'); i >= 0 {
		path = s[i+1:]
		if i > 0 {
			namespace = s[:i]
		}
	}
	return New(namespace, path)
}

// TryParse is Parse without the error detail.
func TryParse(s string) (Location, bool) {
	loc, err := Parse(s)
	return loc, err == nil
}

// String returns the "namespace:path" form.
func (l Location) String() string {
	return l.Namespace + ":" + l.Path
}

// IsZero reports whether l is the zero Location.
func (l Location) IsZero() bool {
	return l.Namespace == "" && l.Path == ""
}

func validNamespace(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !validNamespaceChar(s[i]) {
			return false
		}
	}
	return true
}

func validPath(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if c := s[i]; c != '/' && !validNamespaceChar(c) {
			return false
		}
	}
	return true
}

func validNamespaceChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_' || c == '-' || c == '.'
}
