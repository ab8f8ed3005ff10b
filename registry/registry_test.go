package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type overcurrentStub struct {
	name string
}

func (o overcurrentStub) PickUp() bool  { return true }
func (o overcurrentStub) Label() string { return o.name }

type distanceStub struct {
	name string
}

func (d distanceStub) PickUp() bool  { return true }
func (d distanceStub) Label() string { return d.name }

type protective interface {
	PickUp() bool
	Label() string
}

type physicalState struct {
	powerKW float64
}

func TestCreateNeverReusesEntities(t *testing.T) {
	r := New()

	a := r.Create()
	b := r.Create()
	c := r.Create()

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, b, c)
	assert.Less(t, a, b)
	assert.Less(t, b, c)
}

func TestEmplaceAndGet(t *testing.T) {
	r := New()
	e := r.Create()

	Emplace(r, e, physicalState{powerKW: 12.5})

	got, ok := Get[physicalState](r, e)
	require.True(t, ok)
	assert.Equal(t, 12.5, got.powerKW)
}

func TestGetMissingComponentIsAbsentNotError(t *testing.T) {
	r := New()
	e := r.Create()

	_, ok := Get[physicalState](r, e)
	assert.False(t, ok)
}

func TestEmplaceReplacesPriorValueOfSameType(t *testing.T) {
	r := New()
	e := r.Create()

	Emplace(r, e, physicalState{powerKW: 1})
	Emplace(r, e, physicalState{powerKW: 2})

	got, ok := Get[physicalState](r, e)
	require.True(t, ok)
	assert.Equal(t, 2.0, got.powerKW)

	var seen int
	ForEach(r, func(c physicalState, ent Entity) { seen++ })
	assert.Equal(t, 1, seen, "replacing a component must not duplicate its entry")
}

func TestForEachVisitsInFirstEmplaceOrder(t *testing.T) {
	r := New()
	e1 := r.Create()
	e2 := r.Create()
	e3 := r.Create()

	Emplace(r, e3, physicalState{powerKW: 3})
	Emplace(r, e1, physicalState{powerKW: 1})
	Emplace(r, e2, physicalState{powerKW: 2})

	var order []Entity
	ForEach(r, func(c physicalState, e Entity) { order = append(order, e) })

	assert.Equal(t, []Entity{e3, e1, e2}, order)
}

func TestForEachCapabilityCrossesConcreteTypes(t *testing.T) {
	r := New()
	line := r.Create()
	transformer := r.Create()

	Emplace[protective](r, line, overcurrentStub{name: "OC-L1P-Fast"})
	Emplace[protective](r, transformer, distanceStub{name: "Z1"})
	Emplace(r, line, physicalState{powerKW: 5}) // unrelated component, must be excluded

	var names []string
	ForEachCapability(r, func(c protective, e Entity) {
		names = append(names, c.Label())
	})

	assert.ElementsMatch(t, []string{"OC-L1P-Fast", "Z1"}, names)
}

func TestForEachCapabilityOrderIsStableAcrossCalls(t *testing.T) {
	r := New()
	e1 := r.Create()
	e2 := r.Create()

	Emplace[protective](r, e1, overcurrentStub{name: "first"})
	Emplace[protective](r, e2, distanceStub{name: "second"})

	var firstRun, secondRun []string
	ForEachCapability(r, func(c protective, e Entity) { firstRun = append(firstRun, c.Label()) })
	ForEachCapability(r, func(c protective, e Entity) { secondRun = append(secondRun, c.Label()) })

	assert.Equal(t, firstRun, secondRun)
}

func TestMultipleProtectiveComponentsCanCoexistOnOneEntity(t *testing.T) {
	r := New()
	line := r.Create()

	Emplace(r, line, overcurrentStub{name: "fast"})
	Emplace(r, line, distanceStub{name: "zones"})

	fastGot, ok := Get[overcurrentStub](r, line)
	require.True(t, ok)
	assert.Equal(t, "fast", fastGot.name)

	zonesGot, ok := Get[distanceStub](r, line)
	require.True(t, ok)
	assert.Equal(t, "zones", zonesGot.name)
}
