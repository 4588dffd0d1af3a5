package template

import (
	"errors"
	"fmt"

	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/svg/pathdata"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/svg/style"
)

// Sentinel errors for classification with errors.Is.
var (
	ErrMissingAnchor           = errors.New("missing anchor")
	ErrInvalidParameter        = errors.New("invalid parameter")
	ErrPlaceholderSubstitution = errors.New("placeholder substitution failed")
)

// MissingAnchorError names the id that was required but absent.
type MissingAnchorError struct {
	ID   string
	Role Role
}

func (e *MissingAnchorError) Error() string {
	if e.Role != "" {
		return fmt.Sprintf("missing anchor %q (%s)", e.ID, e.Role)
	}
	return fmt.Sprintf("missing anchor %q", e.ID)
}

func (e *MissingAnchorError) Is(target error) bool { return target == ErrMissingAnchor }

// InvalidParameterError rejects a parameter value for a layout.
type InvalidParameterError struct {
	Name   string
	Value  any
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: %s", e.Name, e.Value, e.Reason)
}

func (e *InvalidParameterError) Is(target error) bool { return target == ErrInvalidParameter }

// SubstitutionError reports a failed placeholder or style rewrite on one
// element attribute.
type SubstitutionError struct {
	Element string
	Attr    string
	Err     error
}

func (e *SubstitutionError) Error() string {
	return fmt.Sprintf("substitute %s of %q: %v", e.Attr, e.Element, e.Err)
}

func (e *SubstitutionError) Unwrap() error { return e.Err }

func (e *SubstitutionError) Is(target error) bool { return target == ErrPlaceholderSubstitution }

// IsSubstitutionFailure reports whether err came from a path or style
// rewrite, whether or not it was wrapped in a SubstitutionError.
func IsSubstitutionFailure(err error) bool {
	return errors.Is(err, ErrPlaceholderSubstitution) ||
		errors.Is(err, pathdata.ErrSubstitution) ||
		errors.Is(err, style.ErrMissingKey)
}
