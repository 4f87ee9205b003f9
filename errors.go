package roadgeom

import (
	"errors"
	"fmt"

	"honnef.co/go/roadgeom/interval"
)

var (
	// ErrDomain is returned when a function or curve is evaluated outside of
	// its domain.
	ErrDomain = errors.New("outside of domain")
	// ErrInvariant is returned by constructors whose input violates the
	// invariants of the object to be built. No object is built in that case.
	ErrInvariant = errors.New("construction invariant violated")
	// ErrAmbiguous is returned when more than one member of a concatenation
	// claims a parameter. Construction prevents this; seeing it indicates a
	// bug.
	ErrAmbiguous = errors.New("ambiguous member resolution")
	// ErrDegenerate is returned for numerical degeneracies such as zero-length
	// vectors, singular matrices and non-finite coefficients.
	ErrDegenerate = errors.New("numerical degeneracy")
)

// DomainError describes an evaluation outside of a domain.
type DomainError struct {
	Parameter float64
	Domain    interval.Range
}

func (err *DomainError) Error() string {
	return fmt.Sprintf("parameter %g is outside of domain %s", err.Parameter, err.Domain)
}

func (err *DomainError) Unwrap() error { return ErrDomain }

// AmbiguousError describes a parameter claimed by more than one member of a
// concatenation.
type AmbiguousError struct {
	Parameter float64
	// Members are the indices of all members claiming the parameter.
	Members []int
}

func (err *AmbiguousError) Error() string {
	return fmt.Sprintf("parameter %g is claimed by members %v", err.Parameter, err.Members)
}

func (err *AmbiguousError) Unwrap() error { return ErrAmbiguous }

// Invariantf returns an error wrapping [ErrInvariant].
func Invariantf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariant, fmt.Sprintf(format, args...))
}

// Degeneratef returns an error wrapping [ErrDegenerate].
func Degeneratef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDegenerate, fmt.Sprintf(format, args...))
}
