package web

import (
	"prompt-studio/internal/catalog"
	"prompt-studio/internal/prompt"
	"prompt-studio/internal/view"
)

type optionDTO struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Fragment    string   `json:"fragment"`
	Swatch      []string `json:"swatch,omitempty"`
}

type categoryDTO struct {
	Key         string      `json:"key"`
	Number      int         `json:"number"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Options     []optionDTO `json:"options"`
}

type presetDTO struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Selection   map[string]string `json:"selection"`
}

type catalogResponse struct {
	Categories []categoryDTO `json:"categories"`
	Presets    []presetDTO   `json:"presets"`
}

type stateResponse struct {
	Mode          view.Mode             `json:"mode"`
	Selections    map[string]*optionDTO `json:"selections"`
	Completed     int                   `json:"completed"`
	Total         int                   `json:"total"`
	Ready         bool                  `json:"ready"`
	DisplayPrompt string                `json:"displayPrompt"`
	APIPrompt     string                `json:"apiPrompt"`
	Placeholder   string                `json:"placeholder"`
	Generating    bool                  `json:"generating"`
	Image         string                `json:"image,omitempty"`
	Error         string                `json:"error,omitempty"`
}

func newOptionDTO(o catalog.Option) optionDTO {
	return optionDTO{
		ID:          o.ID,
		Label:       o.Label,
		Description: o.Description,
		Fragment:    o.Fragment,
		Swatch:      o.SwatchStops(),
	}
}

func newCatalogResponse() catalogResponse {
	var out catalogResponse
	for _, c := range catalog.Categories() {
		dto := categoryDTO{
			Key:         c.Key.String(),
			Number:      int(c.Key) + 1,
			Title:       c.Title,
			Description: c.Description,
		}
		for _, o := range c.Options {
			dto.Options = append(dto.Options, newOptionDTO(o))
		}
		out.Categories = append(out.Categories, dto)
	}
	for _, p := range catalog.Presets() {
		sel := make(map[string]string, catalog.NumKeys)
		for _, k := range catalog.Keys() {
			sel[k.String()] = p.Selection[k].ID
		}
		out.Presets = append(out.Presets, presetDTO{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Selection:   sel,
		})
	}
	return out
}

func newStateResponse(snap view.Snapshot) stateResponse {
	out := stateResponse{
		Mode:          snap.Mode,
		Selections:    make(map[string]*optionDTO, catalog.NumKeys),
		Completed:     snap.Completed,
		Total:         snap.Total,
		Ready:         snap.Ready(),
		DisplayPrompt: snap.DisplayPrompt,
		APIPrompt:     snap.APIPrompt,
		Placeholder:   prompt.Placeholder,
		Generating:    snap.Generating,
		Error:         snap.Error,
	}
	for _, k := range catalog.Keys() {
		if opt, ok := snap.Slots[k].Option(); ok {
			dto := newOptionDTO(opt)
			out.Selections[k.String()] = &dto
		} else {
			out.Selections[k.String()] = nil
		}
	}
	if snap.Image != nil {
		out.Image = snap.Image.DataURL()
	}
	return out
}
