package prefabs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidContent wraps every content validation failure.
var ErrInvalidContent = errors.New("prefabs: invalid content")

// ValidationError locates one content problem. Empty fields do not apply.
type ValidationError struct {
	Archetype  string
	State      string
	Transition string
	Hitbox     string
	Reason     string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "archetype %q", e.Archetype)
	if e.State != "" {
		fmt.Fprintf(&b, " state %q", e.State)
	}
	if e.Transition != "" {
		fmt.Fprintf(&b, " transition %s", e.Transition)
	}
	if e.Hitbox != "" {
		fmt.Fprintf(&b, " hitbox %q", e.Hitbox)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

// ValidationErrors extracts every ValidationError joined into err.
func ValidationErrors(err error) []*ValidationError {
	var out []*ValidationError
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if ve, ok := e.(*ValidationError); ok {
			out = append(out, ve)
			return
		}
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)
	return out
}

type validator struct {
	archetype string
	errs      []error
}

func (v *validator) add(e ValidationError) {
	e.Archetype = v.archetype
	v.errs = append(v.errs, &e)
}

func (v *validator) err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidContent, errors.Join(v.errs...))
}
