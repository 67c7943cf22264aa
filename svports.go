// Package svports elaborates SystemVerilog module port lists and
// instantiation port connections: ANSI and non-ANSI port list
// construction, and ordered/named/wildcard/implicit connection
// resolution including interface-array slicing.
package svports

import (
	"log/slog"

	"github.com/svlang/svports/internal/connect"
	"github.com/svlang/svports/internal/diag"
	"github.com/svlang/svports/internal/ir"
	"github.com/svlang/svports/internal/ports"
	"github.com/svlang/svports/internal/source"
	"github.com/svlang/svports/internal/symbols"
	"github.com/svlang/svports/internal/symtab"
)

// Re-exported types for the public entry points. The syntax elements
// inside the port lists and connections (ir.AnsiPortDeclaration,
// ir.Declarator, ir.ConnectionSyntax, ...) are still spelled from
// package internal/ir.
type (
	Scope         = symtab.Scope
	Lookup        = symtab.Lookup
	Registry      = symtab.Registry
	Definition    = symtab.Definition
	BasicScope    = symtab.BasicScope
	PortElement   = symbols.Element
	Port          = symbols.Port
	MultiPort     = symbols.MultiPort
	InterfacePort = symbols.InterfacePort
	PortConnection = symbols.PortConnection
	Direction     = symbols.Direction

	AnsiPortList    = ir.AnsiPortList
	NonAnsiPortList = ir.NonAnsiPortList
	InstanceSyntax  = ir.InstanceSyntax
	ConstantRange   = ir.ConstantRange
)

// Direction constants.
const (
	DirIn    = symbols.DirIn
	DirOut   = symbols.DirOut
	DirInOut = symbols.DirInOut
	DirRef   = symbols.DirRef
)

// Config controls elaboration strictness and diagnostic filtering.
type Config = diag.Config

// DefaultConfig and StrictConfig mirror the ambient stack's two preset
// strictness levels.
var (
	DefaultConfig = diag.DefaultConfig
	StrictConfig  = diag.StrictConfig
)

// NewBasicScope constructs a reference in-memory Scope for use by
// callers that don't have a real front-end scope to hand elaboration.
func NewBasicScope(cfg Config) *BasicScope {
	return symtab.NewBasicScope(diag.NewBag(cfg))
}

func componentLogger(logger *slog.Logger, component string) *slog.Logger {
	return source.With(logger, component)
}

// BuildAnsiPortList elaborates an ANSI-style module port list (C3).
func BuildAnsiPortList(list *AnsiPortList, scope Scope, lookup Lookup, cfg Config, logger *slog.Logger) []PortElement {
	return ports.BuildAnsi(list, scope, lookup, cfg, componentLogger(logger, "ports"))
}

// BuildNonAnsiPortList elaborates a non-ANSI module port list (C4).
func BuildNonAnsiPortList(list *NonAnsiPortList, scope Scope, lookup Lookup, cfg Config, logger *slog.Logger) []PortElement {
	return ports.BuildNonAnsi(list, scope, lookup, cfg, componentLogger(logger, "ports"))
}

// ResolveConnections builds the per-instance port→PortConnection map
// (C5, delegating to C6 for interface-typed formal ports).
func ResolveConnections(portList []PortElement, inst *InstanceSyntax, scope Scope, lookup Lookup, cfg Config, logger *slog.Logger) map[string]*PortConnection {
	return connect.Resolve(portList, inst, scope, lookup, cfg, componentLogger(logger, "connect"))
}

// Result bundles the elaborated port list for a module body together
// with the diagnostics accumulated while building it.
type Result struct {
	Ports       []PortElement
	Diagnostics []diag.Diagnostic
}

// ElaborateAnsi builds an ANSI port list and returns it along with the
// diagnostics collected in scope's bag, the way a caller wiring the
// full pipeline together would in one call.
func ElaborateAnsi(list *AnsiPortList, scope Scope, lookup Lookup, cfg Config, logger *slog.Logger) Result {
	p := BuildAnsiPortList(list, scope, lookup, cfg, logger)
	return Result{Ports: p, Diagnostics: scope.Diagnostics().Items()}
}

// ElaborateNonAnsi builds a non-ANSI port list and returns it along
// with the diagnostics collected in scope's bag.
func ElaborateNonAnsi(list *NonAnsiPortList, scope Scope, lookup Lookup, cfg Config, logger *slog.Logger) Result {
	p := BuildNonAnsiPortList(list, scope, lookup, cfg, logger)
	return Result{Ports: p, Diagnostics: scope.Diagnostics().Items()}
}
