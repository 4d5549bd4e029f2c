package view

import (
	"fmt"
	"strings"
)

// Mode is the active tab.
type Mode int

const (
	ModeCatalog Mode = iota
	ModeBuilder
	ModePreview
)

func (m Mode) String() string {
	switch m {
	case ModeCatalog:
		return "catalog"
	case ModeBuilder:
		return "builder"
	case ModePreview:
		return "preview"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func (m Mode) Title() string {
	switch m {
	case ModeCatalog:
		return "Style Presets"
	case ModeBuilder:
		return "Custom Builder"
	case ModePreview:
		return "Preview & Export"
	default:
		return m.String()
	}
}

func Modes() []Mode {
	return []Mode{ModeCatalog, ModeBuilder, ModePreview}
}

func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "catalog", "presets":
		return ModeCatalog, nil
	case "builder":
		return ModeBuilder, nil
	case "preview":
		return ModePreview, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, value)
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
