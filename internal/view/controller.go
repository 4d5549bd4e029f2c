package view

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"prompt-studio/internal/catalog"
	"prompt-studio/internal/gemini"
	"prompt-studio/internal/prompt"
	"prompt-studio/internal/selection"
)

var (
	ErrUnknownMode          = errors.New("unknown mode")
	ErrUnknownPreset        = errors.New("unknown preset")
	ErrGenerationInProgress = errors.New("generation already in progress")
	// ErrStaleResult is returned when the user left the preview tab while the
	// call was in flight. The result is discarded.
	ErrStaleResult = errors.New("generation result discarded")
)

// Generator renders a compiled prompt into an image.
type Generator interface {
	GenerateImage(ctx context.Context, prompt, credential string) (gemini.Image, error)
}

// Controller owns one session's selections, active tab and preview panel.
// It is safe for concurrent use.
type Controller struct {
	mu    sync.Mutex
	mode  Mode
	state selection.State

	generating bool
	image      *gemini.Image
	errMsg     string
	// epoch changes every time the preview tab is left.
	epoch uint64
}

func New() *Controller {
	return &Controller{mode: ModeCatalog}
}

type Snapshot struct {
	Mode          Mode
	Slots         [catalog.NumKeys]selection.Slot
	Completed     int
	Total         int
	DisplayPrompt string
	APIPrompt     string
	Generating    bool
	Image         *gemini.Image
	Error         string
}

func (s Snapshot) Ready() bool {
	return s.Completed == s.Total
}

func (s Snapshot) Empty() bool {
	return s.DisplayPrompt == ""
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		Mode:          c.mode,
		Completed:     c.state.CompletionCount(),
		Total:         catalog.NumKeys,
		DisplayPrompt: prompt.Display(c.state),
		APIPrompt:     prompt.API(c.state),
		Generating:    c.generating,
		Error:         c.errMsg,
	}
	for _, k := range catalog.Keys() {
		snap.Slots[k] = c.state.Get(k)
	}
	if c.image != nil {
		img := *c.image
		snap.Image = &img
	}
	return snap
}

func (c *Controller) setModeLocked(m Mode) {
	if c.mode == ModePreview && m != ModePreview {
		c.epoch++
	}
	c.mode = m
}

// SwitchTab moves to any tab unconditionally.
func (c *Controller) SwitchTab(m Mode) error {
	if m < ModeCatalog || m > ModePreview {
		return fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setModeLocked(m)
	return nil
}

// ChoosePreset applies the preset and jumps to the builder.
func (c *Controller) ChoosePreset(id string) error {
	p, ok := catalog.PresetByID(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPreset, id)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.ApplyPreset(p)
	c.setModeLocked(ModeBuilder)
	return nil
}

// Proceed moves builder to preview. Other modes are left alone.
func (c *Controller) Proceed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModeBuilder {
		c.setModeLocked(ModePreview)
	}
}

func (c *Controller) Select(k catalog.Key, optionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Select(k, optionID)
}

// Reset clears the selections. The mode and the preview panel are kept.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Reset()
}

// Generate sends the current API prompt to gen. The prompt is captured
// before the call, so edits made while it is pending do not affect it.
func (c *Controller) Generate(ctx context.Context, gen Generator, credential string) (Snapshot, error) {
	c.mu.Lock()
	if c.generating {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, ErrGenerationInProgress
	}
	captured := prompt.API(c.state)
	epoch := c.epoch
	c.generating = true
	c.errMsg = ""
	c.mu.Unlock()

	img, err := gen.GenerateImage(ctx, captured, credential)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.generating = false
	if epoch != c.epoch {
		return c.snapshotLocked(), ErrStaleResult
	}
	if err != nil {
		c.errMsg = ErrorMessage(err)
		return c.snapshotLocked(), err
	}
	c.image = &img
	return c.snapshotLocked(), nil
}

// ErrorMessage renders err as text for the preview panel.
func ErrorMessage(err error) string {
	var genErr *gemini.GenerationError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, gemini.ErrMissingCredential):
		return "Set your Gemini API key in Settings first."
	case errors.Is(err, gemini.ErrEmptyPrompt):
		return "Please select options to build a prompt first."
	case errors.Is(err, gemini.ErrNoImageReturned):
		return "No image generated."
	case errors.As(err, &genErr):
		if msg := strings.TrimSpace(genErr.Message); msg != "" {
			return msg
		}
		return gemini.DefaultFailureMessage
	case errors.Is(err, ErrGenerationInProgress):
		return "A preview is already being generated."
	case errors.Is(err, ErrStaleResult):
		return "The preview was discarded because you left the Preview tab."
	case errors.Is(err, context.DeadlineExceeded):
		return "Image generation timed out. Please try again."
	default:
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			return msg
		}
		return gemini.DefaultFailureMessage
	}
}
