// Package diag implements the diagnostic taxonomy, severity model, and
// reporting configuration used by the port elaboration pipeline.
// Diagnostics are always reported as data, never thrown: every phase
// takes a *Bag and appends to it instead of returning an error.
package diag

import (
	"fmt"
	"slices"
	"strings"

	"github.com/svlang/svports/internal/source"
)

// Severity orders diagnostics from most to least severe. Lower values
// are more severe, matching the teacher stack's libsmi-derived scale.
type Severity int

const (
	SeverityFatal Severity = iota
	SeveritySevere
	SeverityError
	SeverityMinor
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityFatal:
		return "fatal"
	case SeveritySevere:
		return "severe"
	case SeverityError:
		return "error"
	case SeverityMinor:
		return "minor"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Code identifies a diagnostic. Names follow the taxonomy in full.
type Code string

// Port symbol construction (C1/C3/C4) diagnostics.
const (
	CodeUnknownInterface           Code = "unknown-interface"
	CodeNotAModport                Code = "not-a-modport"
	CodePortTypeNotInterfaceOrData Code = "port-type-not-interface-or-data"
	CodeVarKeywordWithInterface    Code = "var-keyword-with-interface-port"
	CodeDirectionWithInterface     Code = "direction-with-interface-port"
	CodeImplicitNetPortNoDefault   Code = "implicit-net-port-no-default"
	CodeInOutPortCannotBeVariable  Code = "inout-port-cannot-be-variable"
	CodeRefPortMustBeVariable      Code = "ref-port-must-be-variable"
	CodeRedefinition               Code = "redefinition"
	CodeUnusedPortDecl             Code = "unused-port-declaration"
	CodeConstPortNotAllowed        Code = "const-port-not-allowed"
	CodeDisallowedPortDefault      Code = "port-default-not-allowed"
	CodePortDeclInANSIModule       Code = "port-decl-in-ansi-module"
	CodePortConcatInOut            Code = "port-concatenation-inout"
	CodePortConcatRef              Code = "port-concatenation-ref"
	CodeIfacePortInConcat          Code = "interface-port-in-concatenation"
	CodeBadConcatExpression        Code = "bad-concatenation-expression"
	CodeNotYetSupported            Code = "not-yet-supported"
)

// Connection resolution (C5/C6) diagnostics.
const (
	CodeMixingOrderedAndNamed      Code = "mixing-ordered-and-named-ports"
	CodeDuplicateWildcardConn      Code = "duplicate-wildcard-port-connection"
	CodeDuplicatePortConnection    Code = "duplicate-port-connection"
	CodeTooManyPortConnections     Code = "too-many-port-connections"
	CodePortDoesNotExist           Code = "port-does-not-exist"
	CodeUnconnectedNamedPort       Code = "unconnected-named-port"
	CodeUnconnectedUnnamedPort     Code = "unconnected-unnamed-port"
	CodeNullPortExpression         Code = "null-port-expression"
	CodeImplicitNamedPortNotFound  Code = "implicit-named-port-not-found"
	CodeImplicitNamedPortTypeMism  Code = "implicit-named-port-type-mismatch"
	CodeUsedBeforeDeclared         Code = "used-before-declared"
	CodeInterfacePortNotConnected  Code = "interface-port-not-connected"
	CodeInterfacePortInvalidExpr   Code = "interface-port-invalid-expression"
	CodeInterfacePortTypeMismatch  Code = "interface-port-type-mismatch"
	CodeModportConnMismatch        Code = "modport-connection-mismatch"
	CodePortConnDimensionsMismatch Code = "port-connection-dimensions-mismatch"
	CodeNotAnInterface             Code = "not-an-interface"
)

// CodeInfo describes a diagnostic code and the component that emits it.
type CodeInfo struct {
	Code      Code
	Component string
	Default   Severity
}

// AllCodes returns every known diagnostic code grouped by the
// component that emits it, along with its default severity.
func AllCodes() []CodeInfo {
	return []CodeInfo{
		{CodeUnknownInterface, "ports", SeverityError},
		{CodeNotAModport, "ports", SeverityError},
		{CodePortTypeNotInterfaceOrData, "ports", SeverityError},
		{CodeVarKeywordWithInterface, "ports", SeverityError},
		{CodeDirectionWithInterface, "ports", SeverityError},
		{CodeImplicitNetPortNoDefault, "ports", SeverityError},
		{CodeInOutPortCannotBeVariable, "ports", SeverityError},
		{CodeRefPortMustBeVariable, "ports", SeverityError},
		{CodeRedefinition, "ports", SeverityError},
		{CodeUnusedPortDecl, "ports", SeverityWarning},
		{CodeConstPortNotAllowed, "ports", SeverityError},
		{CodeDisallowedPortDefault, "ports", SeverityError},
		{CodePortDeclInANSIModule, "ports", SeverityError},
		{CodePortConcatInOut, "ports", SeverityError},
		{CodePortConcatRef, "ports", SeverityError},
		{CodeIfacePortInConcat, "ports", SeverityError},
		{CodeBadConcatExpression, "ports", SeverityError},
		{CodeNotYetSupported, "ports", SeverityError},
		{CodeMixingOrderedAndNamed, "connect", SeverityError},
		{CodeDuplicateWildcardConn, "connect", SeverityError},
		{CodeDuplicatePortConnection, "connect", SeverityError},
		{CodeTooManyPortConnections, "connect", SeverityError},
		{CodePortDoesNotExist, "connect", SeverityError},
		{CodeUnconnectedNamedPort, "connect", SeverityWarning},
		{CodeUnconnectedUnnamedPort, "connect", SeverityWarning},
		{CodeNullPortExpression, "connect", SeverityError},
		{CodeImplicitNamedPortNotFound, "connect", SeverityError},
		{CodeImplicitNamedPortTypeMism, "connect", SeverityError},
		{CodeUsedBeforeDeclared, "connect", SeverityError},
		{CodeInterfacePortNotConnected, "connect", SeverityError},
		{CodeInterfacePortInvalidExpr, "connect", SeverityError},
		{CodeInterfacePortTypeMismatch, "connect", SeverityError},
		{CodeModportConnMismatch, "connect", SeverityError},
		{CodePortConnDimensionsMismatch, "connect", SeverityError},
		{CodeNotAnInterface, "connect", SeverityError},
	}
}

// Note is a secondary location attached to a diagnostic, e.g. the
// earlier declaration a Redefinition conflicts with.
type Note struct {
	Code    Code
	Span    source.Span
	Message string
}

// Diagnostic is a single reported issue, with a fluent Arg/Note
// builder mirroring the "diag << arg1 << arg2" chaining style used by
// the collaborator this package's callers are modeled on.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Span     source.Span
	Args     []any
	Notes    []Note
}

// Arg appends a formatting argument and returns the diagnostic for
// chaining.
func (d *Diagnostic) Arg(v any) *Diagnostic {
	d.Args = append(d.Args, v)
	return d
}

// AddNote attaches a secondary location, e.g. the earliest
// contradicting declaration for a Redefinition diagnostic.
func (d *Diagnostic) AddNote(code Code, span source.Span, msg string) *Diagnostic {
	d.Notes = append(d.Notes, Note{Code: code, Span: span, Message: msg})
	return d
}

// String renders a human-readable form of the diagnostic.
func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", d.Severity, d.Code)
	if len(d.Args) > 0 {
		b.WriteString(": ")
		for i, a := range d.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%v", a)
		}
	}
	return b.String()
}

// Config controls strictness and diagnostic filtering.
type Config struct {
	// FailAt sets the severity threshold for failure: any diagnostic
	// at or more severe than this fails elaboration.
	FailAt Severity

	// Overrides changes the severity of specific codes.
	Overrides map[Code]Severity

	// Ignore lists codes to suppress entirely. Supports glob patterns
	// (e.g. "port-concatenation-*").
	Ignore []string

	// StrictLRMDirections, when true, disables the industry-practice
	// deviation in C3 (explicit type + non-var, non-inout/ref
	// direction yields a variable) and instead follows the base LRM
	// rule (the same header yields a net).
	StrictLRMDirections bool
}

// DefaultConfig reports every diagnostic that is not ignored, failing
// at Error.
func DefaultConfig() Config {
	return Config{FailAt: SeverityError}
}

// StrictConfig reports everything including Info, and enables strict
// LRM direction defaulting instead of the industry-practice deviation.
func StrictConfig() Config {
	return Config{FailAt: SeveritySevere, StrictLRMDirections: true}
}

// severityOf resolves the effective severity for a code, applying
// overrides and falling back to the taxonomy's default.
func (c Config) severityOf(code Code) Severity {
	if sev, ok := c.Overrides[code]; ok {
		return sev
	}
	for _, info := range AllCodes() {
		if info.Code == code {
			return info.Default
		}
	}
	return SeverityError
}

// ShouldReport returns true if a diagnostic with the given code should
// be reported under this configuration.
func (c Config) ShouldReport(code Code) bool {
	if slices.ContainsFunc(c.Ignore, func(pattern string) bool {
		return matchGlob(pattern, string(code))
	}) {
		return false
	}
	return true
}

// ShouldFail returns true if a diagnostic with the given code should
// cause elaboration to fail.
func (c Config) ShouldFail(code Code) bool {
	return c.severityOf(code) <= c.FailAt
}

func matchGlob(pattern, s string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(s, prefix)
	}
	if suffix, ok := strings.CutPrefix(pattern, "*"); ok {
		return strings.HasSuffix(s, suffix)
	}
	return pattern == s
}

// Bag accumulates diagnostics emitted during elaboration, filtering
// through a Config before they are recorded.
type Bag struct {
	cfg   Config
	items []Diagnostic
	// warnedOnce tracks codes that should be emitted at most once per
	// higher-level operation (e.g. UnconnectedNamedPort per instance).
	warnedOnce map[string]bool
}

// NewBag creates an empty diagnostic bag under the given config.
func NewBag(cfg Config) *Bag {
	return &Bag{cfg: cfg, warnedOnce: make(map[string]bool)}
}

// Add records a diagnostic and returns it for fluent Arg/Note chaining.
// If the config filters this code out entirely it is dropped.
func (b *Bag) Add(sev Severity, code Code, span source.Span) *Diagnostic {
	if !b.cfg.ShouldReport(code) {
		return &Diagnostic{Severity: sev, Code: code, Span: span}
	}
	b.items = append(b.items, Diagnostic{Severity: sev, Code: code, Span: span})
	return &b.items[len(b.items)-1]
}

// AddOnce records a diagnostic only the first time it is called with a
// given key in this bag's lifetime, mirroring the "at most one
// direction diagnostic per concatenation" / "warn once per instance"
// rules.
func (b *Bag) AddOnce(key string, sev Severity, code Code, span source.Span) *Diagnostic {
	if b.warnedOnce[key] {
		return &Diagnostic{Severity: sev, Code: code, Span: span}
	}
	b.warnedOnce[key] = true
	return b.Add(sev, code, span)
}

// Items returns all recorded diagnostics in emission order.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// HasErrors returns true if any recorded diagnostic should fail
// elaboration under this bag's config.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if b.cfg.ShouldFail(d.Code) {
			return true
		}
	}
	return false
}

// Config returns the bag's configuration.
func (b *Bag) Config() Config {
	return b.cfg
}
