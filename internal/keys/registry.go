package keys

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/roach88/itemdata/internal/tag"
)

// Registry errors.
var (
	ErrInvalidDef = errors.New("keys: invalid definition")
	ErrConflict   = errors.New("keys: conflicting definition")
)

// Def declares the kind stored under an attachment key.
type Def struct {
	Name        string
	Kind        tag.Kind
	Elem        tag.Kind // element kind for lists; KindEnd when unconstrained
	Description string
}

// defFile is the on-disk shape of a Def in YAML and CUE registry files.
type defFile struct {
	Name        string `yaml:"name" json:"name" validate:"required,keyname"`
	Kind        string `yaml:"kind" json:"kind" validate:"required,tagkind"`
	Elem        string `yaml:"elem,omitempty" json:"elem,omitempty" validate:"omitempty,tagkind"`
	Description string `yaml:"description,omitempty" json:"description,omitempty" validate:"max=256"`
}

var keyNamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("keyname", func(fl validator.FieldLevel) bool {
		return keyNamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("tagkind", func(fl validator.FieldLevel) bool {
		_, err := tag.ParseKind(fl.Field().String())
		return err == nil
	})
	return v
}

// toDef validates the file form and converts it.
func (f defFile) toDef() (Def, error) {
	if err := validate.Struct(f); err != nil {
		return Def{}, fmt.Errorf("%w: %s", ErrInvalidDef, formatValidationError(f.Name, err))
	}
	kind, _ := tag.ParseKind(f.Kind)
	d := Def{Name: f.Name, Kind: kind, Description: f.Description}
	if f.Elem != "" {
		if kind != tag.KindList {
			return Def{}, fmt.Errorf("%w: %q: elem is only valid for list keys", ErrInvalidDef, f.Name)
		}
		d.Elem, _ = tag.ParseKind(f.Elem)
	}
	return d, nil
}

func formatValidationError(name string, err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "keyname":
			msgs = append(msgs, fmt.Sprintf("name %q must match [a-z0-9_]+", e.Value()))
		case "tagkind":
			msgs = append(msgs, fmt.Sprintf("%s %q is not one of %s", field, e.Value(), strings.Join(tag.KindNames(), ", ")))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, e.Param()))
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	if name != "" {
		return fmt.Sprintf("%q: %s", name, strings.Join(msgs, "; "))
	}
	return strings.Join(msgs, "; ")
}

// Registry maps key names to their definitions.
type Registry struct {
	defs map[string]Def
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Def)}
}

// Register adds d. Registering an identical definition again is a no-op;
// a definition that changes the kind of an existing key is rejected.
func (r *Registry) Register(d Def) error {
	f := defFile{Name: d.Name, Kind: d.Kind.String(), Description: d.Description}
	if d.Elem != tag.KindEnd {
		f.Elem = d.Elem.String()
	}
	checked, err := f.toDef()
	if err != nil {
		return err
	}
	if prev, ok := r.defs[checked.Name]; ok {
		if prev.Kind != checked.Kind || prev.Elem != checked.Elem {
			return fmt.Errorf("%w: %q is %s, cannot redefine as %s", ErrConflict, checked.Name, describe(prev), describe(checked))
		}
		if checked.Description == "" {
			checked.Description = prev.Description
		}
	}
	r.defs[checked.Name] = checked
	return nil
}

func describe(d Def) string {
	if d.Kind == tag.KindList && d.Elem != tag.KindEnd {
		return "list<" + d.Elem.String() + ">"
	}
	return d.Kind.String()
}

// Lookup returns the definition for name.
func (r *Registry) Lookup(name string) (Def, bool) {
	d, ok := r.defs[name]
	return d, ok
}

// Len returns the number of registered keys.
func (r *Registry) Len() int { return len(r.defs) }

// Defs returns all definitions sorted by name.
func (r *Registry) Defs() []Def {
	out := make([]Def, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b Def) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Problem classifies a Violation.
type Problem int

const (
	ProblemUnknownKey Problem = iota
	ProblemKindMismatch
	ProblemElemMismatch
)

func (p Problem) String() string {
	switch p {
	case ProblemUnknownKey:
		return "unknown_key"
	case ProblemKindMismatch:
		return "kind_mismatch"
	case ProblemElemMismatch:
		return "elem_mismatch"
	default:
		return fmt.Sprintf("problem(%d)", int(p))
	}
}

// Violation is a single finding from Check.
type Violation struct {
	Key     string
	Problem Problem
	Want    tag.Kind // declared kind (or element kind); KindEnd for unknown keys
	Got     tag.Kind
}

func (v Violation) String() string {
	switch v.Problem {
	case ProblemUnknownKey:
		return fmt.Sprintf("%s: unknown key holding %s", v.Key, v.Got)
	case ProblemElemMismatch:
		return fmt.Sprintf("%s: list elements are not all %s", v.Key, v.Want)
	default:
		return fmt.Sprintf("%s: declared %s, stored %s", v.Key, v.Want, v.Got)
	}
}

// Check reports every entry of root that is unknown to r or stored with a
// kind other than the declared one. Findings are ordered by key.
func (r *Registry) Check(root tag.Compound) []Violation {
	var out []Violation
	for _, key := range root.SortedKeys() {
		got := tag.KindOf(root[key])
		d, ok := r.defs[key]
		switch {
		case !ok:
			out = append(out, Violation{Key: key, Problem: ProblemUnknownKey, Got: got})
		case d.Kind != got:
			out = append(out, Violation{Key: key, Problem: ProblemKindMismatch, Want: d.Kind, Got: got})
		case d.Elem != tag.KindEnd:
			for _, elem := range root[key].(tag.List) {
				if k := tag.KindOf(elem); k != d.Elem {
					out = append(out, Violation{Key: key, Problem: ProblemElemMismatch, Want: d.Elem, Got: k})
					break
				}
			}
		}
	}
	return out
}
