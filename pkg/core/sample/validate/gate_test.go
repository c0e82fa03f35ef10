package validate

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/scienceol/rockin/pkg/common/code"
	"github.com/scienceol/rockin/pkg/core/sample"
	"github.com/scienceol/rockin/pkg/repo/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)

func newGate() *Gate {
	return New(func() time.Time { return fixedNow })
}

func corePayload() map[string]any {
	return map[string]any{
		"core_number":         "C1",
		"core_section_number": float64(1),
		"core_section_name":   "TestWell-C1-1",
		"core_type":           "Core",
		"top_depth":           "1203.5",
		"bottom_depth":        1204.0,
	}
}

func TestCoreValid(t *testing.T) {
	core, errs := newGate().Core(corePayload())
	require.Nil(t, errs)
	assert.Equal(t, "C1", core.CoreNumber)
	assert.Equal(t, "C1", core.PlannedCoreNumber)
	assert.EqualValues(t, 1, core.CoreSectionNumber)
	assert.Equal(t, 1203.5, core.TopDepth)
	require.NotNil(t, core.BottomDepth)
	assert.Equal(t, 1204.0, *core.BottomDepth)
	assert.Equal(t, fixedNow, core.CollectionDate)
}

func TestCoreReportsEveryField(t *testing.T) {
	p := corePayload()
	p["core_number"] = "C12"
	p["core_type"] = "Plug"
	p["top_depth"] = "deep"
	p["preservation"] = "Jar"
	p["ct_scanned"] = "maybe"

	_, errs := newGate().Core(p)
	require.NotNil(t, errs)
	assert.ElementsMatch(t,
		[]string{"core_number", "core_type", "top_depth", "preservation", "ct_scanned"},
		errs.Fields())
	assert.Equal(t, []string{msgNumber}, errs["top_depth"])
	assert.True(t, errors.Is(errs, code.SampleValidateErr))
}

func TestCorePreservation(t *testing.T) {
	p := corePayload()
	p["preservation"] = "Refrigerated at 4 degrees Celsius"
	core, errs := newGate().Core(p)
	require.Nil(t, errs)
	require.NotNil(t, core.Preservation)
	assert.Equal(t, "Refrigerated at 4 degrees Celsius", *core.Preservation)

	p["preservation"] = "Wax"
	_, errs = newGate().Core(p)
	require.NotNil(t, errs)
	assert.Equal(t, []string{"preservation"}, errs.Fields())
}

func TestCounterUpperBound(t *testing.T) {
	p := corePayload()
	p["core_section_number"] = int64(math.MaxInt64)
	_, errs := newGate().Core(p)
	require.NotNil(t, errs)
	assert.Equal(t, []string{"Ensure this value is less than or equal to 999999."}, errs["core_section_number"])

	p["core_section_number"] = model.MaxCounter
	_, errs = newGate().Core(p)
	assert.Nil(t, errs)

	_, ok, present := newGate().Counter(map[string]any{"cuttings_number": model.MaxCounter + 1}, "cuttings_number")
	assert.False(t, ok)
	assert.True(t, present)
}

func TestCoreDepthOrder(t *testing.T) {
	p := corePayload()
	p["bottom_depth"] = 1000
	_, errs := newGate().Core(p)
	require.NotNil(t, errs)
	assert.True(t, errs.Has("bottom_depth"))
}

func TestCoreCollectionDate(t *testing.T) {
	p := corePayload()
	p["collection_date"] = "2024-04-30T10:15"
	core, errs := newGate().Core(p)
	require.Nil(t, errs)
	assert.Equal(t, time.Date(2024, 4, 30, 10, 15, 0, 0, time.UTC), core.CollectionDate)

	p["collection_date"] = "yesterday"
	_, errs = newGate().Core(p)
	require.NotNil(t, errs)
	assert.Equal(t, []string{msgDateTime}, errs["collection_date"])
}

func TestCoreChipRequiredFields(t *testing.T) {
	_, errs := newGate().CoreChip(map[string]any{
		"core_number":         "C1",
		"core_section_number": 2,
		"corechip_number":     1,
		"corechip_name":       "TestWell-C1-2-1",
	})
	require.NotNil(t, errs)
	assert.ElementsMatch(t,
		[]string{"from_top_bottom", "core_chip_depth", "lithology", "remarks"},
		errs.Fields())
	for _, msgs := range errs {
		assert.Equal(t, []string{msgRequired}, msgs)
	}
}

func TestCoreChipValid(t *testing.T) {
	chip, errs := newGate().CoreChip(map[string]any{
		"core_number":         "C1",
		"core_section_number": "2",
		"corechip_number":     1.0,
		"corechip_name":       "TestWell-C1-2-1",
		"from_top_bottom":     model.FromTop,
		"core_chip_depth":     12.25,
		"lithology":           "sandstone",
		"remarks":             "fine grained",
		"debris":              "yes",
	})
	require.Nil(t, errs)
	assert.EqualValues(t, 2, chip.CoreSectionNumber)
	require.NotNil(t, chip.Debris)
	assert.True(t, *chip.Debris)
}

func TestMicroCoreInvalid(t *testing.T) {
	_, errs := newGate().MicroCore(map[string]any{
		"micro_core_number": 1.5,
		"micro_core_name":   "TestWell-MC-1",
		"drilling_method":   "Hammer",
		"drilling_mud":      "Air",
	})
	require.NotNil(t, errs)
	assert.ElementsMatch(t,
		[]string{"micro_core_number", "drilling_method", "drilling_mud"},
		errs.Fields())
	assert.Equal(t, []string{msgInteger}, errs["micro_core_number"])
}

func TestCuttings(t *testing.T) {
	c, errs := newGate().Cuttings(map[string]any{
		"cuttings_number": 3,
		"cuttings_name":   "TestWell-CUT-3",
		"cuttings_depth":  "850",
		"sample_state":    "Dry washed",
		"dried_sample":    true,
		"dried_date":      "2024-04-29 09:00",
		"sample_weight":   -1,
	})
	require.NotNil(t, errs)
	assert.Equal(t, []string{"sample_weight"}, errs.Fields())
	assert.Equal(t, 850.0, c.CuttingsDepth)
	require.NotNil(t, c.DriedDate)
}

func TestWell(t *testing.T) {
	g := newGate()

	w, errs := g.Well(map[string]any{"well_name": " Test-Well "})
	require.Nil(t, errs)
	assert.Equal(t, "Test-Well", w.WellName)
	assert.Equal(t, "TestWell", w.ShortName)

	_, errs = g.Well(map[string]any{"well_name": "- -"})
	require.NotNil(t, errs)
	assert.True(t, errs.Has("well_name"))

	_, errs = g.Well(map[string]any{})
	require.NotNil(t, errs)
	assert.Equal(t, []string{msgRequired}, errs["well_name"])
}

func TestValidateDispatch(t *testing.T) {
	g := newGate()
	rec, errs := g.Validate(sample.KindCore, corePayload())
	require.Nil(t, errs)
	assert.IsType(t, &model.Core{}, rec)

	_, errs = g.Validate(sample.Kind("rock"), corePayload())
	require.NotNil(t, errs)
	assert.True(t, errs.Has("kind"))
}

func TestPeekHelpers(t *testing.T) {
	g := newGate()

	cn, ok := g.CoreNumber(map[string]any{"core_number": "C3"})
	assert.True(t, ok)
	assert.Equal(t, "C3", cn)
	_, ok = g.CoreNumber(map[string]any{"core_number": "X"})
	assert.False(t, ok)

	n, ok, present := g.Counter(map[string]any{"core_section_number": "4"}, "core_section_number")
	assert.True(t, ok)
	assert.True(t, present)
	assert.EqualValues(t, 4, n)

	_, ok, present = g.Counter(map[string]any{"core_section_number": 0}, "core_section_number")
	assert.False(t, ok)
	assert.True(t, present)

	_, _, present = g.Counter(map[string]any{}, "core_section_number")
	assert.False(t, present)

	assert.Equal(t, "sandstone", g.Text(map[string]any{"lithology": " sandstone "}, "lithology"))
}
