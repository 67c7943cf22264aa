package symbols

import (
	"strings"
	"testing"

	"github.com/svlang/svports/internal/hwtypes"
	"github.com/svlang/svports/internal/ir"
	"github.com/svlang/svports/internal/porttest"
	"github.com/svlang/svports/internal/source"
	"github.com/svlang/svports/internal/symtab"
)

func TestSetInternalSymbolEnforcesInOutRequiresNet(t *testing.T) {
	p := NewPort("a", source.Synthetic, hwtypes.NewLogic(1))
	p.SetDirection(DirInOut)
	v := symtab.NewSymbol("a", symtab.KindVariable, source.Synthetic, hwtypes.NewLogic(1))

	ok := p.SetInternalSymbol(v)
	porttest.False(t, ok)
	porttest.True(t, p.InternalSymbol() == nil)
}

func TestSetInternalSymbolEnforcesRefRequiresVariable(t *testing.T) {
	p := NewPort("r", source.Synthetic, hwtypes.NewLogic(1))
	p.SetDirection(DirRef)
	n := symtab.NewSymbol("r", symtab.KindNet, source.Synthetic, hwtypes.NewLogic(1))

	ok := p.SetInternalSymbol(n)
	porttest.False(t, ok)
}

func TestSetInternalSymbolAcceptsMatchingKind(t *testing.T) {
	p := NewPort("r", source.Synthetic, hwtypes.NewLogic(1))
	p.SetDirection(DirRef)
	v := symtab.NewSymbol("r", symtab.KindVariable, source.Synthetic, hwtypes.NewLogic(1))

	ok := p.SetInternalSymbol(v)
	porttest.True(t, ok)
	porttest.Equal(t, v, p.InternalSymbol())
}

// TestPortSerializeRoundTripsIdentity covers the round-trip property:
// a Port's serialized record preserves its name, direction, and
// internal-symbol link.
func TestPortSerializeRoundTripsIdentity(t *testing.T) {
	p := NewPort("clk", source.Synthetic, hwtypes.NewLogic(1))
	p.SetDirection(DirIn)
	sym := symtab.NewSymbol("clk", symtab.KindVariable, source.Synthetic, hwtypes.NewLogic(1))
	p.SetInternalSymbol(sym)

	var out strings.Builder
	p.Serialize(&out)
	rec := out.String()

	porttest.True(t, strings.Contains(rec, `"name":"clk"`))
	porttest.True(t, strings.Contains(rec, `"direction":"in"`))
	porttest.True(t, strings.Contains(rec, `"internalSymbol":"clk"`))
}

func TestMultiPortSerializeIncludesComponents(t *testing.T) {
	a := NewPort("a", source.Synthetic, hwtypes.NewLogic(4))
	b := NewPort("b", source.Synthetic, hwtypes.NewBit(4))
	mp := NewMultiPort("concat0", source.Synthetic, DirOut, []*Port{a, b})

	porttest.Equal(t, 8, mp.Type().BitWidth())

	var out strings.Builder
	mp.Serialize(&out)
	rec := out.String()
	porttest.True(t, strings.Contains(rec, `"kind":"multiport"`))
	porttest.True(t, strings.Contains(rec, `"name":"a"`))
	porttest.True(t, strings.Contains(rec, `"name":"b"`))
}

func TestInterfacePortSerializeReflectsMissingIO(t *testing.T) {
	ip := NewInterfacePort("bus", source.Synthetic, nil, "")
	ip.SetMissingIO(true)

	var out strings.Builder
	ip.Serialize(&out)
	porttest.True(t, strings.Contains(out.String(), `"missingIO":true`))
}

func TestValueConnectionSerializeOmitsNilExpr(t *testing.T) {
	p := NewPort("a", source.Synthetic, hwtypes.NewLogic(1))
	c := NewValueConnection(p, nil)

	var out strings.Builder
	c.Serialize(&out)
	porttest.False(t, strings.Contains(out.String(), "expr"))
}

func TestValueConnectionSerializeIncludesExpr(t *testing.T) {
	p := NewPort("a", source.Synthetic, hwtypes.NewLogic(1))
	c := NewValueConnection(p, &ir.ExpressionSyntax{Text: "sys_clk"})

	var out strings.Builder
	c.Serialize(&out)
	porttest.True(t, strings.Contains(out.String(), `"expr":"sys_clk"`))
}

func TestElementInterfaceSatisfiedByAllThreeKinds(t *testing.T) {
	var elems []Element
	elems = append(elems, NewPort("a", source.Synthetic, hwtypes.NewLogic(1)))
	elems = append(elems, NewMultiPort("c", source.Synthetic, DirOut, nil))
	elems = append(elems, NewInterfacePort("b", source.Synthetic, nil, ""))

	porttest.Len(t, elems, 3)
	for _, e := range elems {
		porttest.True(t, e.Name() != "")
	}
}
