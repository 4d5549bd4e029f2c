package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoriesOrder(t *testing.T) {
	cats := Categories()
	require.Len(t, cats, NumKeys)

	want := []string{"style", "structure", "elements", "color", "layout"}
	for i, c := range cats {
		assert.Equal(t, want[i], c.Key.String())
		assert.Equal(t, Key(i), c.Key)
		assert.NotEmpty(t, c.Title)
		assert.NotEmpty(t, c.Options)
	}
}

func TestOptionIDsUniqueWithinCategory(t *testing.T) {
	for _, c := range Categories() {
		seen := map[string]bool{}
		for _, o := range c.Options {
			assert.NotEmpty(t, o.ID)
			assert.NotEmpty(t, o.Fragment, o.ID)
			assert.False(t, seen[o.ID], "duplicate id %s in %s", o.ID, c.Key)
			seen[o.ID] = true
		}
	}
}

func TestPresetsSaturated(t *testing.T) {
	ps := Presets()
	require.Len(t, ps, 7)

	for _, p := range ps {
		for _, k := range Keys() {
			opt := p.Selection[k]
			got, ok := Lookup(k, opt.ID)
			require.True(t, ok, "preset %s: %s option %q not in catalog", p.Name, k, opt.ID)
			assert.Equal(t, got, opt)
		}
	}
}

func TestPresetByID(t *testing.T) {
	p, ok := PresetByID("ghibli")
	require.True(t, ok)
	assert.Equal(t, "Ghibli Nostalgia", p.Name)

	p, ok = PresetByID("cyber tech")
	require.True(t, ok)
	assert.Equal(t, "cyber", p.ID)

	_, ok = PresetByID("")
	assert.False(t, ok)
	_, ok = PresetByID("nope")
	assert.False(t, ok)
}

func TestParseKey(t *testing.T) {
	for _, k := range Keys() {
		got, ok := ParseKey(k.String())
		require.True(t, ok)
		assert.Equal(t, k, got)
	}
	got, ok := ParseKey(" Color ")
	assert.True(t, ok)
	assert.Equal(t, Color, got)

	_, ok = ParseKey("mood")
	assert.False(t, ok)
	assert.False(t, Key(9).Valid())
	assert.Equal(t, "Key(9)", Key(9).String())
}

func TestLookupRejectsForeignCategory(t *testing.T) {
	_, ok := Lookup(Style, "ghibli_struct")
	assert.False(t, ok)
	_, ok = Lookup(Key(-1), "ghibli_style")
	assert.False(t, ok)
}

func TestCategoryCopiesAreIndependent(t *testing.T) {
	c, ok := CategoryFor(Style)
	require.True(t, ok)
	c.Options[0].Label = "mutated"

	again, _ := CategoryFor(Style)
	assert.Equal(t, "Ghibli Style", again.Options[0].Label)
}

func TestSwatchStops(t *testing.T) {
	o, ok := Lookup(Color, "ghibli_color")
	require.True(t, ok)
	assert.Equal(t, []string{"#bbf7d0", "#fef9c3", "#bfdbfe"}, o.SwatchStops())

	o, _ = Lookup(Style, "ghibli_style")
	assert.Nil(t, o.SwatchStops())
}
