// Package hwtypes stands in for the external type system that port
// elaboration only ever consumes: bit widths, four-state-ness, and the
// integral concatenation constructor used to build a MultiPort's
// packed type. A real front-end supplies its own implementation of
// Type; this package's Error and Concat are enough to exercise and
// test the elaboration core in isolation.
package hwtypes

import "fmt"

// Type is the minimal type-system surface elaboration depends on.
type Type interface {
	// Name returns a human-readable spelling, used in diagnostics.
	Name() string
	// BitWidth returns the packed bit width, or 0 if not integral.
	BitWidth() int
	// IsFourState reports whether the type has X/Z states (net types
	// and most integral types) as opposed to two-state (int, bit
	// without four-state, etc).
	IsFourState() bool
	// IsIntegral reports whether the type can appear as a MultiPort
	// component.
	IsIntegral() bool
	// IsVoid reports whether this is the "no type" placeholder used
	// for ports that can never be expression-connected.
	IsVoid() bool
	// IsError reports whether this is the sentinel error type
	// produced when the external type binder could not resolve a
	// syntax node; construction continues with an error type rather
	// than aborting.
	IsError() bool
	// Equal reports type identity for the strict comparisons C5
	// performs on implicit named/wildcard connections.
	Equal(Type) bool
}

// basic is a concrete scalar/vector type, e.g. "logic [7:0]" or "int".
type basic struct {
	name      string
	bitWidth  int
	fourState bool
	integral  bool
}

func (b *basic) Name() string       { return b.name }
func (b *basic) BitWidth() int      { return b.bitWidth }
func (b *basic) IsFourState() bool  { return b.fourState }
func (b *basic) IsIntegral() bool   { return b.integral }
func (b *basic) IsVoid() bool       { return false }
func (b *basic) IsError() bool      { return false }
func (b *basic) Equal(o Type) bool {
	other, ok := o.(*basic)
	if !ok {
		return false
	}
	return b.name == other.name && b.bitWidth == other.bitWidth &&
		b.fourState == other.fourState && b.integral == other.integral
}

// NewLogic returns a four-state packed integral type of the given
// width, the type net ports without an explicit type default to.
func NewLogic(width int) Type {
	return &basic{name: fmt.Sprintf("logic[%d:0]", width-1), bitWidth: width, fourState: true, integral: true}
}

// NewBit returns a two-state packed integral type.
func NewBit(width int) Type {
	return &basic{name: fmt.Sprintf("bit[%d:0]", width-1), bitWidth: width, integral: true}
}

// NewInt returns the two-state 32-bit "int" type, the type the
// industry-practice direction deviation cares about.
func NewInt() Type {
	return &basic{name: "int", bitWidth: 32, integral: true}
}

// NewNamed returns a non-integral named type (a struct, an enum base,
// or anything else opaque to this package), used for the "not
// integral" test case and for type names the ports package does not
// know.
func NewNamed(name string) Type {
	return &basic{name: name}
}

type voidType struct{}

func (voidType) Name() string      { return "void" }
func (voidType) BitWidth() int     { return 0 }
func (voidType) IsFourState() bool { return false }
func (voidType) IsIntegral() bool  { return false }
func (voidType) IsVoid() bool      { return true }
func (voidType) IsError() bool     { return false }
func (voidType) Equal(o Type) bool { _, ok := o.(voidType); return ok }

// Void is the "no type" placeholder for ports that can never be
// expression-connected (empty non-ANSI port entries use it as their
// declared type).
var Void Type = voidType{}

type errorType struct{}

func (errorType) Name() string      { return "<error>" }
func (errorType) BitWidth() int     { return 0 }
func (errorType) IsFourState() bool { return false }
func (errorType) IsIntegral() bool  { return false }
func (errorType) IsVoid() bool      { return false }
func (errorType) IsError() bool     { return true }
func (errorType) Equal(o Type) bool { _, ok := o.(errorType); return ok }

// Error is the sentinel type produced when the external binder fails
// to resolve a type syntax node.
var Error Type = errorType{}

// Concat builds the packed, concatenated type for a MultiPort: its
// width is the sum of the component widths, and it is four-state if
// any component is.
func Concat(components []Type) Type {
	width := 0
	fourState := false
	for _, c := range components {
		width += c.BitWidth()
		if c.IsFourState() {
			fourState = true
		}
	}
	return &basic{
		name:      fmt.Sprintf("concat[%d:0]", width-1),
		bitWidth:  width,
		fourState: fourState,
		integral:  true,
	}
}
