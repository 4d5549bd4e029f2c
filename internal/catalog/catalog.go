package catalog

import (
	"fmt"
	"strings"
)

// Key identifies one of the five fixed prompt categories. The numeric order
// is the order fragments appear in a compiled prompt.
type Key int

const (
	Style Key = iota
	Structure
	Elements
	Color
	Layout
)

// NumKeys is the number of categories.
const NumKeys = 5

func (k Key) String() string {
	switch k {
	case Style:
		return "style"
	case Structure:
		return "structure"
	case Elements:
		return "elements"
	case Color:
		return "color"
	case Layout:
		return "layout"
	default:
		return fmt.Sprintf("Key(%d)", int(k))
	}
}

func (k Key) Valid() bool {
	return k >= Style && k <= Layout
}

// Keys returns every category key in prompt order.
func Keys() []Key {
	return []Key{Style, Structure, Elements, Color, Layout}
}

func ParseKey(value string) (Key, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "style":
		return Style, true
	case "structure":
		return Structure, true
	case "elements":
		return Elements, true
	case "color":
		return Color, true
	case "layout":
		return Layout, true
	}
	return 0, false
}

type Option struct {
	ID          string
	Label       string
	Description string
	Fragment    string
	// Swatch is an optional comma-separated list of hex stops.
	Swatch string
}

// SwatchStops splits Swatch into its hex colors.
func (o Option) SwatchStops() []string {
	if strings.TrimSpace(o.Swatch) == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(o.Swatch, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

type Category struct {
	Key         Key
	Title       string
	Description string
	Options     []Option
}

type Preset struct {
	ID          string
	Name        string
	Description string
	Selection   [NumKeys]Option
}

// Categories returns copies of all categories in prompt order.
func Categories() []Category {
	out := make([]Category, 0, NumKeys)
	for _, k := range Keys() {
		c, _ := CategoryFor(k)
		out = append(out, c)
	}
	return out
}

func CategoryFor(k Key) (Category, bool) {
	if !k.Valid() {
		return Category{}, false
	}
	c := categories[k]
	c.Options = append([]Option(nil), c.Options...)
	return c, true
}

// Lookup finds an option by id inside a single category.
func Lookup(k Key, id string) (Option, bool) {
	if !k.Valid() {
		return Option{}, false
	}
	id = strings.TrimSpace(id)
	for _, o := range categories[k].Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

func Presets() []Preset {
	return append([]Preset(nil), presets...)
}

// PresetByID matches either the slug or the display name.
func PresetByID(id string) (Preset, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Preset{}, false
	}
	for _, p := range presets {
		if p.ID == id || strings.EqualFold(p.Name, id) {
			return p, true
		}
	}
	return Preset{}, false
}
