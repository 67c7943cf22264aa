package diag

import (
	"testing"

	"github.com/svlang/svports/internal/porttest"
	"github.com/svlang/svports/internal/source"
)

func TestBagAddRecordsDiagnostic(t *testing.T) {
	bag := NewBag(DefaultConfig())
	bag.Add(SeverityError, CodeRedefinition, source.Synthetic).Arg("foo")

	porttest.Len(t, bag.Items(), 1)
	porttest.Equal(t, CodeRedefinition, bag.Items()[0].Code)
	porttest.True(t, bag.HasErrors())
}

func TestBagIgnoreGlob(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ignore = []string{"port-concatenation-*"}
	bag := NewBag(cfg)
	bag.Add(SeverityError, CodePortConcatInOut, source.Synthetic)

	porttest.Len(t, bag.Items(), 0)
}

func TestBagAddOnceDeduplicates(t *testing.T) {
	bag := NewBag(DefaultConfig())
	bag.AddOnce("k", SeverityWarning, CodeUnconnectedNamedPort, source.Synthetic)
	bag.AddOnce("k", SeverityWarning, CodeUnconnectedNamedPort, source.Synthetic)

	porttest.Len(t, bag.Items(), 1)
}

func TestBagAddOnceNeverReturnsNil(t *testing.T) {
	bag := NewBag(DefaultConfig())
	bag.AddOnce("k", SeverityWarning, CodeUnconnectedNamedPort, source.Synthetic)
	d := bag.AddOnce("k", SeverityWarning, CodeUnconnectedNamedPort, source.Synthetic)
	porttest.NotNil(t, d)
	d.Arg("does not panic")
}

func TestConfigOverrideChangesFailure(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Overrides = map[Code]Severity{CodeUnusedPortDecl: SeverityFatal}
	porttest.True(t, cfg.ShouldFail(CodeUnusedPortDecl))
}

func TestStrictConfigEnablesLRMDirections(t *testing.T) {
	porttest.True(t, StrictConfig().StrictLRMDirections)
	porttest.False(t, DefaultConfig().StrictLRMDirections)
}

func TestAllCodesNonEmpty(t *testing.T) {
	porttest.NotEmpty(t, AllCodes())
}
