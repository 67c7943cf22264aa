// Package direction implements the direction-resolution and
// default-net-type helper shared by the ANSI and non-ANSI port list
// builders (C2).
package direction

import (
	"github.com/svlang/svports/internal/diag"
	"github.com/svlang/svports/internal/ir"
	"github.com/svlang/svports/internal/hwtypes"
	"github.com/svlang/svports/internal/source"
	"github.com/svlang/svports/internal/symbols"
	"github.com/svlang/svports/internal/symtab"
)

// Of resolves a direction token against an inherited direction: an
// explicit token always wins, otherwise the inherited direction
// carries forward.
func Of(tok ir.DirectionToken, inherited symbols.Direction) symbols.Direction {
	switch tok {
	case ir.DirIn:
		return symbols.DirIn
	case ir.DirOut:
		return symbols.DirOut
	case ir.DirInOut:
		return symbols.DirInOut
	case ir.DirRef:
		return symbols.DirRef
	default:
		return inherited
	}
}

// DefaultNet returns the net type new implicit nets in scope should
// take on. If the scope's default net type is the error sentinel
// (`` `default_nettype none ``), it reports
// CodeImplicitNetPortNoDefault at loc and falls back to a one-bit
// "wire"-equivalent so elaboration can continue.
func DefaultNet(scope symtab.Scope, loc source.Span) hwtypes.Type {
	t := scope.DefaultNetType()
	if t == nil || t.IsError() {
		scope.Diagnostics().Add(diag.SeverityError, diag.CodeImplicitNetPortNoDefault, loc)
		return hwtypes.NewLogic(1)
	}
	return t
}
