package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const modelImage = "gemini-2.5-flash-image"

const defaultMimeType = "image/png"

type Options struct {
	BaseURL    string
	APIVersion string
	HTTPClient *http.Client
	Logger     *slog.Logger
	// Limiter spaces out calls across every caller of this client. Optional.
	Limiter *rate.Limiter
}

type Client struct {
	baseURL    string
	apiVersion string
	httpClient *http.Client
	logger     *slog.Logger
	limiter    *rate.Limiter
}

func New(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}

	apiVersion := strings.TrimSpace(opts.APIVersion)
	if apiVersion == "" {
		apiVersion = "v1beta"
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    baseURL,
		apiVersion: apiVersion,
		httpClient: httpClient,
		logger:     logger,
		limiter:    opts.Limiter,
	}
}

// PerMinute builds a limiter allowing n calls per minute with no burst.
// n <= 0 disables limiting.
func PerMinute(n int) *rate.Limiter {
	if n <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), 1)
}

// GenerateImage renders prompt with the image model. Only the first candidate
// is inspected and the first part carrying inline data wins.
func (c *Client) GenerateImage(ctx context.Context, prompt, credential string) (Image, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return Image{}, ErrMissingCredential
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Image{}, ErrEmptyPrompt
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Image{}, failed(err, "rate limit wait")
		}
	}

	req := generateContentRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}

	resp, err := c.generateContent(ctx, modelImage, credential, req)
	if err != nil {
		return Image{}, err
	}

	blob, ok := firstInlineData(resp)
	if !ok {
		return Image{}, ErrNoImageReturned
	}

	data, err := base64.StdEncoding.DecodeString(blob.Data)
	if err != nil {
		return Image{}, failed(err, "decode image")
	}

	mimeType := strings.TrimSpace(blob.MimeType)
	if mimeType == "" {
		mimeType = defaultMimeType
	}

	c.logger.Debug("gemini image generated", "model", modelImage, "mime", mimeType, "bytes", len(data))
	return Image{Data: data, MimeType: mimeType}, nil
}

func (c *Client) generateContent(ctx context.Context, model, credential string, payload generateContentRequest) (generateContentResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return generateContentResponse{}, failed(err, "marshal request")
	}

	url := fmt.Sprintf("%s/%s/models/%s:generateContent", c.baseURL, c.apiVersion, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return generateContentResponse{}, failed(err, "create request")
	}
	httpReq.Header.Set("content-type", "application/json")
	httpReq.Header.Set("x-goog-api-key", credential)

	c.logger.Debug("gemini request", "model", model, "prompt_len", len(payload.Contents[0].Parts[0].Text))

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return generateContentResponse{}, failed(err, "request")
	}
	defer httpResp.Body.Close()

	rawBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return generateContentResponse{}, failed(err, "read response")
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		c.logger.Warn("gemini request failed", "model", model, "status", httpResp.StatusCode)
		return generateContentResponse{}, &GenerationError{Message: apiErrorMessage(httpResp.Status, rawBody)}
	}

	var decoded generateContentResponse
	if err := json.Unmarshal(rawBody, &decoded); err != nil {
		return generateContentResponse{}, failed(err, "decode response")
	}
	return decoded, nil
}

func firstInlineData(resp generateContentResponse) (blob, bool) {
	if len(resp.Candidates) == 0 {
		return blob{}, false
	}
	for _, p := range resp.Candidates[0].Content.Parts {
		if p.InlineData != nil && p.InlineData.Data != "" {
			return *p.InlineData, true
		}
	}
	return blob{}, false
}

// apiErrorMessage prefers the message in Google's error envelope.
func apiErrorMessage(status string, body []byte) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if msg := strings.TrimSpace(envelope.Error.Message); msg != "" {
			return msg
		}
	}
	text := strings.TrimSpace(string(body))
	if text == "" {
		return fmt.Sprintf("gemini API %s", status)
	}
	return fmt.Sprintf("gemini API %s: %s", status, text)
}

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string `json:"text,omitempty"`
	InlineData *blob  `json:"inlineData,omitempty"`
}

type blob struct {
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
}

type generateContentResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content content `json:"content"`
}
