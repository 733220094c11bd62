// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/pdiddy/report-engine/internal/httputil"
)

// ServerConverter posts documents to a pandoc-server instance.
type ServerConverter struct {
	client     *http.Client
	url        string
	maxRetries int
}

// NewServerConverter returns a converter for the pandoc-server at url.
func NewServerConverter(client *http.Client, url string, maxRetries int) *ServerConverter {
	if client == nil {
		client = http.DefaultClient
	}
	return &ServerConverter{client: client, url: url, maxRetries: maxRetries}
}

// serverRequest is the pandoc-server conversion request. Binary input
// formats are sent base64-encoded in Text.
type serverRequest struct {
	Text string `json:"text"`
	From string `json:"from"`
	To   string `json:"to"`
}

type serverResponse struct {
	Output   string          `json:"output"`
	Base64   bool            `json:"base64"`
	Messages []serverMessage `json:"messages"`
}

type serverMessage struct {
	Verbosity string `json:"verbosity"`
	Message   string `json:"message"`
}

// Convert implements Converter.
func (s *ServerConverter) Convert(ctx context.Context, path string) (Conversion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Conversion{}, fmt.Errorf("reading %s: %w", path, err)
	}

	body, err := json.Marshal(serverRequest{
		Text: base64.StdEncoding.EncodeToString(data),
		From: "docx",
		To:   "html5",
	})
	if err != nil {
		return Conversion{}, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return Conversion{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := httputil.DoWithRetry(ctx, s.client, req, s.maxRetries)
	if err != nil {
		return Conversion{}, fmt.Errorf("converting %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Conversion{}, fmt.Errorf("converting %s: pandoc-server returned %s: %s", path, resp.Status, bytes.TrimSpace(msg))
	}

	var out serverResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Conversion{}, fmt.Errorf("decoding pandoc-server response: %w", err)
	}

	html := out.Output
	if out.Base64 {
		raw, err := base64.StdEncoding.DecodeString(out.Output)
		if err != nil {
			return Conversion{}, fmt.Errorf("decoding pandoc-server output: %w", err)
		}
		html = string(raw)
	}

	msgs := make([]string, 0, len(out.Messages))
	for _, m := range out.Messages {
		if m.Verbosity != "" {
			msgs = append(msgs, "["+m.Verbosity+"] "+m.Message)
			continue
		}
		msgs = append(msgs, m.Message)
	}

	return Conversion{HTML: html, Messages: msgs}, nil
}
