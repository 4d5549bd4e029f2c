package prompt

import (
	"strings"

	"prompt-studio/internal/catalog"
	"prompt-studio/internal/selection"
)

// Suffix carries the aspect ratio and renderer version for the copyable prompt.
const Suffix = "--ar 3:2 --v 6.0"

const Placeholder = "Select options from the builder to generate your prompt..."

const separator = ", "

// Fragments returns the selected fragments in category order.
func Fragments(st selection.State) []string {
	out := make([]string, 0, catalog.NumKeys)
	for _, k := range catalog.Keys() {
		opt, ok := st.Get(k).Option()
		if !ok {
			continue
		}
		if f := strings.TrimSpace(opt.Fragment); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Display is the clipboard form. Empty when nothing is selected.
func Display(st selection.State) string {
	parts := Fragments(st)
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, separator) + " " + Suffix
}

// API is the natural-language form sent to the image model.
func API(st selection.State) string {
	return strings.Join(Fragments(st), separator)
}
