package gemini

import (
	"encoding/base64"
	"errors"
	"fmt"
)

var (
	ErrMissingCredential = errors.New("missing API key")
	ErrEmptyPrompt       = errors.New("prompt is empty")
	ErrNoImageReturned   = errors.New("no image generated")
	ErrGenerationFailed  = errors.New("generation failed")
)

const DefaultFailureMessage = "Failed to generate image. Please check your API Key."

// GenerationError wraps any transport or service fault. It matches
// ErrGenerationFailed with errors.Is.
type GenerationError struct {
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Message == "" {
		return DefaultFailureMessage
	}
	return e.Message
}

func (e *GenerationError) Unwrap() error { return e.Err }

func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

func failed(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &GenerationError{Message: msg, Err: err}
}

type Image struct {
	Data     []byte
	MimeType string
}

func (img Image) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", img.MimeType, base64.StdEncoding.EncodeToString(img.Data))
}
