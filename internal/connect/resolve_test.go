package connect

import (
	"testing"

	"github.com/svlang/svports/internal/diag"
	"github.com/svlang/svports/internal/hwtypes"
	"github.com/svlang/svports/internal/ir"
	"github.com/svlang/svports/internal/porttest"
	"github.com/svlang/svports/internal/source"
	"github.com/svlang/svports/internal/symbols"
	"github.com/svlang/svports/internal/symtab"
)

func newConnScope() (*symtab.BasicScope, *diag.Bag) {
	bag := diag.NewBag(diag.DefaultConfig())
	return symtab.NewBasicScope(bag), bag
}

func portElem(name string) symbols.Element {
	p := symbols.NewPort(name, source.Synthetic, hwtypes.NewLogic(1))
	p.SetDirection(symbols.DirIn)
	return p
}

func TestResolveOrderedBindsInSequence(t *testing.T) {
	scope, bag := newConnScope()
	portList := []symbols.Element{portElem("a"), portElem("b")}
	inst := &ir.InstanceSyntax{
		Connections: []ir.ConnectionSyntax{
			{Kind: ir.ConnOrdered, Expr: &ir.ExpressionSyntax{Text: "x"}},
			{Kind: ir.ConnOrdered, Expr: &ir.ExpressionSyntax{Text: "y"}},
		},
	}

	result := Resolve(portList, inst, scope, scope, diag.DefaultConfig(), nil)
	porttest.Equal(t, "x", result["a"].Expr.Text)
	porttest.Equal(t, "y", result["b"].Expr.Text)
	porttest.Len(t, bag.Items(), 0)
}

func TestResolveOrderedFallsBackToDefault(t *testing.T) {
	scope, bag := newConnScope()
	p := symbols.NewPort("a", source.Synthetic, hwtypes.NewLogic(1))
	p.SetDirection(symbols.DirIn)
	p.SetInitializer(&ir.ExpressionSyntax{Text: "1'b0"})
	portList := []symbols.Element{p}
	inst := &ir.InstanceSyntax{}

	result := Resolve(portList, inst, scope, scope, diag.DefaultConfig(), nil)
	porttest.Equal(t, "1'b0", result["a"].Expr.Text)
	porttest.Len(t, bag.Items(), 0)
}

func TestResolveOrderedUnconnectedNamedPortWarns(t *testing.T) {
	scope, bag := newConnScope()
	portList := []symbols.Element{portElem("a")}
	inst := &ir.InstanceSyntax{}

	result := Resolve(portList, inst, scope, scope, diag.DefaultConfig(), nil)
	porttest.Nil(t, result["a"].Expr)
	porttest.Len(t, bag.Items(), 1)
	porttest.Equal(t, diag.CodeUnconnectedNamedPort, bag.Items()[0].Code)
}

// TestResolveOrderedUnconnectedUnnamedPortWarns exercises the ordered
// style specifically (an empty connection list falls into named-style
// classification instead, per classify's zero-connections rule) by
// supplying one ordered connection that only covers the named port,
// leaving a trailing unnamed MultiPort-shaped formal unconnected.
func TestResolveOrderedUnconnectedUnnamedPortWarns(t *testing.T) {
	scope, bag := newConnScope()
	portList := []symbols.Element{portElem("a"), portElem("")}
	inst := &ir.InstanceSyntax{
		Connections: []ir.ConnectionSyntax{
			{Kind: ir.ConnOrdered, Expr: &ir.ExpressionSyntax{Text: "x"}},
		},
	}

	Resolve(portList, inst, scope, scope, diag.DefaultConfig(), nil)
	var found bool
	for _, d := range bag.Items() {
		if d.Code == diag.CodeUnconnectedUnnamedPort {
			found = true
		}
	}
	porttest.True(t, found)
}

// TestResolveOrderedEmptySlotFallsBackToDefault exercises the ordered
// `( , )` boundary: a present-but-empty ordered slot must fall back to
// the port's default rather than binding a nil expression outright.
func TestResolveOrderedEmptySlotFallsBackToDefault(t *testing.T) {
	scope, bag := newConnScope()
	p := symbols.NewPort("a", source.Synthetic, hwtypes.NewLogic(1))
	p.SetDirection(symbols.DirIn)
	p.SetInitializer(&ir.ExpressionSyntax{Text: "1'b0"})
	portList := []symbols.Element{p}
	inst := &ir.InstanceSyntax{
		Connections: []ir.ConnectionSyntax{
			{Kind: ir.ConnOrdered, Expr: nil},
		},
	}

	result := Resolve(portList, inst, scope, scope, diag.DefaultConfig(), nil)
	porttest.Equal(t, "1'b0", result["a"].Expr.Text)
	porttest.Len(t, bag.Items(), 0)
}

// TestBindingExpressionToVoidPortDiagnosesNullPortExpression covers the
// invariant that connecting any expression to a void (empty) formal
// port is illegal.
func TestBindingExpressionToVoidPortDiagnosesNullPortExpression(t *testing.T) {
	scope, bag := newConnScope()
	p := symbols.NewPort("", source.Synthetic, hwtypes.Void)
	portList := []symbols.Element{p}
	inst := &ir.InstanceSyntax{
		Connections: []ir.ConnectionSyntax{
			{Kind: ir.ConnOrdered, Expr: &ir.ExpressionSyntax{Text: "x"}},
		},
	}

	Resolve(portList, inst, scope, scope, diag.DefaultConfig(), nil)
	porttest.Equal(t, diag.CodeNullPortExpression, bag.Items()[0].Code)
}

// TestNamedEmptyParensForcesNilRegardlessOfDefault exercises the
// `.name()` vs `.name` boundary: empty parens must yield a nil
// connection expression even though the formal port carries a default.
func TestNamedEmptyParensForcesNilRegardlessOfDefault(t *testing.T) {
	scope, bag := newConnScope()
	p := symbols.NewPort("a", source.Synthetic, hwtypes.NewLogic(1))
	p.SetDirection(symbols.DirIn)
	p.SetInitializer(&ir.ExpressionSyntax{Text: "1'b1"})
	portList := []symbols.Element{p}
	inst := &ir.InstanceSyntax{
		Connections: []ir.ConnectionSyntax{
			{Kind: ir.ConnNamed, Name: "a", HasParens: true, Expr: nil},
		},
	}

	result := Resolve(portList, inst, scope, scope, diag.DefaultConfig(), nil)
	porttest.Nil(t, result["a"].Expr)
	porttest.Len(t, bag.Items(), 0)
}

func TestNamedBareDotNameIsImplicitReference(t *testing.T) {
	scope, bag := newConnScope()
	scope.Define(symtab.NewSymbol("a", symtab.KindNet, source.NewSpan(0, 1), hwtypes.NewLogic(1)))
	portList := []symbols.Element{portElem("a")}
	inst := &ir.InstanceSyntax{
		Span: source.NewSpan(10, 20),
		Connections: []ir.ConnectionSyntax{
			{Kind: ir.ConnNamed, Name: "a", HasParens: false},
		},
	}

	result := Resolve(portList, inst, scope, scope, diag.DefaultConfig(), nil)
	porttest.Equal(t, "a", result["a"].Expr.Text)
	porttest.Len(t, bag.Items(), 0)
}

func TestNamedBareDotNameNotFoundDiagnosed(t *testing.T) {
	scope, bag := newConnScope()
	portList := []symbols.Element{portElem("a")}
	inst := &ir.InstanceSyntax{
		Connections: []ir.ConnectionSyntax{
			{Kind: ir.ConnNamed, Name: "a", HasParens: false},
		},
	}

	result := Resolve(portList, inst, scope, scope, diag.DefaultConfig(), nil)
	porttest.Nil(t, result["a"].Expr)
	porttest.Equal(t, diag.CodeImplicitNamedPortNotFound, bag.Items()[0].Code)
}

func TestNamedBareDotNameTypeMismatchDiagnosed(t *testing.T) {
	scope, bag := newConnScope()
	scope.Define(symtab.NewSymbol("a", symtab.KindNet, source.NewSpan(0, 1), hwtypes.NewInt()))
	portList := []symbols.Element{portElem("a")}
	inst := &ir.InstanceSyntax{
		Span: source.NewSpan(10, 20),
		Connections: []ir.ConnectionSyntax{
			{Kind: ir.ConnNamed, Name: "a", HasParens: false},
		},
	}

	Resolve(portList, inst, scope, scope, diag.DefaultConfig(), nil)
	var found bool
	for _, d := range bag.Items() {
		if d.Code == diag.CodeImplicitNamedPortTypeMism {
			found = true
		}
	}
	porttest.True(t, found)
}

func TestNamedBareDotNameUsedBeforeDeclaredDiagnosed(t *testing.T) {
	scope, bag := newConnScope()
	scope.Define(symtab.NewSymbol("a", symtab.KindNet, source.NewSpan(50, 51), hwtypes.NewLogic(1)))
	portList := []symbols.Element{portElem("a")}
	inst := &ir.InstanceSyntax{
		Span: source.NewSpan(10, 20),
		Connections: []ir.ConnectionSyntax{
			{Kind: ir.ConnNamed, Name: "a", HasParens: false},
		},
	}

	Resolve(portList, inst, scope, scope, diag.DefaultConfig(), nil)
	var found bool
	for _, d := range bag.Items() {
		if d.Code == diag.CodeUsedBeforeDeclared {
			found = true
		}
	}
	porttest.True(t, found)
}

// TestNamedMissNoWildcardIgnoresSameNamedOuterSymbol covers the named
// mode boundary where a port has zero connections at all (`dut d();`)
// and the enclosing scope happens to hold a same-named symbol: without
// a `.*` wildcard in effect, that outer symbol must never be
// auto-connected. The port falls to its own default, else
// UnconnectedNamedPort.
func TestNamedMissNoWildcardIgnoresSameNamedOuterSymbol(t *testing.T) {
	scope, bag := newConnScope()
	scope.Define(symtab.NewSymbol("a", symtab.KindNet, source.NewSpan(0, 1), hwtypes.NewLogic(1)))
	portList := []symbols.Element{portElem("a")}
	inst := &ir.InstanceSyntax{}

	result := Resolve(portList, inst, scope, scope, diag.DefaultConfig(), nil)
	porttest.Nil(t, result["a"].Expr)
	porttest.Equal(t, diag.CodeUnconnectedNamedPort, bag.Items()[0].Code)
}

// TestNamedMissNoWildcardUsesDefaultOverSameNamedOuterSymbol is the
// same boundary with a port default present: the default wins, still
// without touching the outer same-named symbol.
func TestNamedMissNoWildcardUsesDefaultOverSameNamedOuterSymbol(t *testing.T) {
	scope, bag := newConnScope()
	scope.Define(symtab.NewSymbol("a", symtab.KindNet, source.NewSpan(0, 1), hwtypes.NewLogic(1)))
	p := symbols.NewPort("a", source.Synthetic, hwtypes.NewLogic(1))
	p.SetDirection(symbols.DirIn)
	p.SetInitializer(&ir.ExpressionSyntax{Text: "1'b0"})
	portList := []symbols.Element{p}
	inst := &ir.InstanceSyntax{}

	result := Resolve(portList, inst, scope, scope, diag.DefaultConfig(), nil)
	porttest.Equal(t, "1'b0", result["a"].Expr.Text)
	porttest.Len(t, bag.Items(), 0)
}

// TestWildcardMissUsesDefaultOverImplicitText covers the wildcard-miss
// boundary: no same-named outer symbol exists, but the port carries a
// default, which must win over blindly binding the port's own name as
// text.
func TestWildcardMissUsesDefaultOverImplicitText(t *testing.T) {
	scope, bag := newConnScope()
	p := symbols.NewPort("a", source.Synthetic, hwtypes.NewLogic(1))
	p.SetDirection(symbols.DirIn)
	p.SetInitializer(&ir.ExpressionSyntax{Text: "1'b1"})
	portList := []symbols.Element{p}
	inst := &ir.InstanceSyntax{
		Connections: []ir.ConnectionSyntax{
			{Kind: ir.ConnWildcard},
		},
	}

	result := Resolve(portList, inst, scope, scope, diag.DefaultConfig(), nil)
	porttest.Equal(t, "1'b1", result["a"].Expr.Text)
	porttest.Len(t, bag.Items(), 0)
}

// TestWildcardMissNoDefaultDiagnosesNotFound covers the remaining
// wildcard-miss boundary: no match and no default emits
// ImplicitNamedPortNotFound rather than silently binding the port's
// own name.
func TestWildcardMissNoDefaultDiagnosesNotFound(t *testing.T) {
	scope, bag := newConnScope()
	portList := []symbols.Element{portElem("a")}
	inst := &ir.InstanceSyntax{
		Connections: []ir.ConnectionSyntax{
			{Kind: ir.ConnWildcard},
		},
	}

	result := Resolve(portList, inst, scope, scope, diag.DefaultConfig(), nil)
	porttest.Nil(t, result["a"].Expr)
	porttest.Equal(t, diag.CodeImplicitNamedPortNotFound, bag.Items()[0].Code)
}

// TestClassifyKeysOffFirstConnection: a connection list that begins
// ordered and later contains a named entry must still process in
// ordered mode (dropping into named mode instead would leave port "a"
// unconnected and lose the ordered binding; in ordered mode the
// trailing named entry is reported as PortDoesNotExist).
func TestClassifyKeysOffFirstConnection(t *testing.T) {
	scope, bag := newConnScope()
	portList := []symbols.Element{portElem("a"), portElem("b")}
	inst := &ir.InstanceSyntax{
		DefName: "m0",
		Connections: []ir.ConnectionSyntax{
			{Kind: ir.ConnOrdered, Expr: &ir.ExpressionSyntax{Text: "x"}},
			{Kind: ir.ConnNamed, Name: "b", HasParens: true, Expr: &ir.ExpressionSyntax{Text: "y"}},
		},
	}

	result := Resolve(portList, inst, scope, scope, diag.DefaultConfig(), nil)
	porttest.Equal(t, "x", result["a"].Expr.Text)

	var sawMixing bool
	for _, d := range bag.Items() {
		if d.Code == diag.CodeMixingOrderedAndNamed {
			sawMixing = true
		}
	}
	porttest.True(t, sawMixing)
}

func TestMixingOrderedAndNamedPortsDiagnosed(t *testing.T) {
	scope, bag := newConnScope()
	portList := []symbols.Element{portElem("a"), portElem("b")}
	inst := &ir.InstanceSyntax{
		DefName: "m0",
		Connections: []ir.ConnectionSyntax{
			{Kind: ir.ConnOrdered, Expr: &ir.ExpressionSyntax{Text: "x"}},
			{Kind: ir.ConnNamed, Name: "b", HasParens: true, Expr: &ir.ExpressionSyntax{Text: "y"}},
		},
	}

	Resolve(portList, inst, scope, scope, diag.DefaultConfig(), nil)

	var found bool
	for _, d := range bag.Items() {
		if d.Code == diag.CodeMixingOrderedAndNamed {
			found = true
		}
	}
	porttest.True(t, found)
}

func TestDuplicatePortConnectionDiagnosed(t *testing.T) {
	scope, bag := newConnScope()
	portList := []symbols.Element{portElem("a")}
	inst := &ir.InstanceSyntax{
		Connections: []ir.ConnectionSyntax{
			{Kind: ir.ConnNamed, Name: "a", HasParens: true, Expr: &ir.ExpressionSyntax{Text: "x"}},
			{Kind: ir.ConnNamed, Name: "a", HasParens: true, Expr: &ir.ExpressionSyntax{Text: "y"}},
		},
	}

	Resolve(portList, inst, scope, scope, diag.DefaultConfig(), nil)
	porttest.Equal(t, diag.CodeDuplicatePortConnection, bag.Items()[0].Code)
}

func TestDuplicateWildcardConnDiagnosed(t *testing.T) {
	scope, bag := newConnScope()
	portList := []symbols.Element{portElem("a")}
	inst := &ir.InstanceSyntax{
		Connections: []ir.ConnectionSyntax{
			{Kind: ir.ConnWildcard},
			{Kind: ir.ConnWildcard},
		},
	}

	Resolve(portList, inst, scope, scope, diag.DefaultConfig(), nil)
	porttest.Equal(t, diag.CodeDuplicateWildcardConn, bag.Items()[0].Code)
}

func TestTooManyPortConnectionsDiagnosed(t *testing.T) {
	scope, bag := newConnScope()
	portList := []symbols.Element{portElem("a")}
	inst := &ir.InstanceSyntax{
		Connections: []ir.ConnectionSyntax{
			{Kind: ir.ConnOrdered, Expr: &ir.ExpressionSyntax{Text: "x"}},
			{Kind: ir.ConnOrdered, Expr: &ir.ExpressionSyntax{Text: "y"}},
		},
	}

	Resolve(portList, inst, scope, scope, diag.DefaultConfig(), nil)
	var found bool
	for _, d := range bag.Items() {
		if d.Code == diag.CodeTooManyPortConnections {
			found = true
		}
	}
	porttest.True(t, found)
}

func TestPortDoesNotExistDiagnosed(t *testing.T) {
	scope, bag := newConnScope()
	portList := []symbols.Element{portElem("a")}
	inst := &ir.InstanceSyntax{
		Connections: []ir.ConnectionSyntax{
			{Kind: ir.ConnNamed, Name: "nope", HasParens: true, Expr: &ir.ExpressionSyntax{Text: "x"}},
		},
	}

	Resolve(portList, inst, scope, scope, diag.DefaultConfig(), nil)
	var found bool
	for _, d := range bag.Items() {
		if d.Code == diag.CodePortDoesNotExist {
			found = true
		}
	}
	porttest.True(t, found)
}
