package registry

import (
	"testing"

	"go.viam.com/test"

	"github.com/elastictraj/teb/graph"
)

func TestInitIsIdempotentAndPopulatesEveryBuiltin(t *testing.T) {
	Init()
	Init()
	test.That(t, Initialized(), test.ShouldBeTrue)

	families := Families()
	test.That(t, len(families), test.ShouldEqual, len(builtins))
	for i, info := range builtins {
		test.That(t, families[i], test.ShouldEqual, info.Family)
	}
}

func TestLookupFindsBuiltinFamilyMetadata(t *testing.T) {
	info, ok := Lookup(graph.FamilyObstacle)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, info.Name, test.ShouldEqual, "obstacle")
	test.That(t, info.IsHuman, test.ShouldBeFalse)

	info, ok = Lookup(graph.FamilyHumanRobotSafety)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, info.IsHuman, test.ShouldBeTrue)
}

func TestLookupUnknownFamilyReturnsFalse(t *testing.T) {
	_, ok := Lookup(graph.Family(999))
	test.That(t, ok, test.ShouldBeFalse)
}

func TestFamiliesPreservesFixedAssemblyOrder(t *testing.T) {
	families := Families()
	test.That(t, families[0], test.ShouldEqual, graph.FamilyObstacle)
	test.That(t, families[len(families)-1], test.ShouldEqual, graph.FamilyHumanRobotDirectional)
}
