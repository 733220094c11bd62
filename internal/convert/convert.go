// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert implements report-document-to-HTML conversion with
// pluggable backends. Converters return the markup together with any
// diagnostic messages the tool emitted; callers forward the messages
// without interpreting them.
package convert

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/report-engine/internal/container"
	"github.com/pdiddy/report-engine/pkg/types"
)

const (
	defaultImage   = "pandoc/core:3.5"
	defaultTimeout = 2 * time.Minute
)

// Converter transforms a source document into HTML. Different backends
// (pandoc in a container, pandoc-server, plain HTML) implement this
// interface.
type Converter interface {
	// Convert reads the document at path and returns its HTML.
	Convert(ctx context.Context, path string) (Conversion, error)
}

// Conversion is the output of one document conversion.
type Conversion struct {
	HTML     string
	Messages []string
}

// Router dispatches on the source file extension, falling back to Default.
type Router struct {
	Default Converter
	ByExt   map[string]Converter
}

// Convert implements Converter.
func (r *Router) Convert(ctx context.Context, path string) (Conversion, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if c, ok := r.ByExt[ext]; ok {
		return c.Convert(ctx, path)
	}
	if r.Default == nil {
		return Conversion{}, fmt.Errorf("no converter for %s", path)
	}
	return r.Default.Convert(ctx, path)
}

// Timeout wraps c so that each conversion is bounded by d.
func Timeout(c Converter, d time.Duration) Converter {
	return timeoutConverter{next: c, d: d}
}

type timeoutConverter struct {
	next Converter
	d    time.Duration
}

func (t timeoutConverter) Convert(ctx context.Context, path string) (Conversion, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.next.Convert(ctx, path)
}

// New builds the converter selected by cfg. HTML sources are always read
// directly regardless of the backend. The pandoc backend requires a working
// docker or podman runtime with the image present.
func New(cfg types.ConversionConfig, client *http.Client) (Converter, error) {
	html := HTMLConverter{}

	var primary Converter
	switch cfg.Backend {
	case types.BackendPandoc, "":
		rt, err := container.DetectRuntime()
		if err != nil {
			return nil, err
		}
		image := cfg.Image
		if image == "" {
			image = defaultImage
		}
		pc, err := NewPandocConverter(rt, image)
		if err != nil {
			return nil, err
		}
		primary = pc
	case types.BackendServer:
		if cfg.ServerURL == "" {
			return nil, fmt.Errorf("server backend requires a server URL")
		}
		primary = NewServerConverter(client, cfg.ServerURL, cfg.MaxRetries)
	case types.BackendHTML:
		primary = html
	default:
		return nil, fmt.Errorf("unsupported conversion backend %q: use pandoc, server, or html", cfg.Backend)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return Timeout(&Router{
		Default: primary,
		ByExt: map[string]Converter{
			".html": html,
			".htm":  html,
		},
	}, timeout), nil
}

// splitMessages turns tool diagnostic output into one message per
// non-blank line.
func splitMessages(out string) []string {
	msgs := []string{}
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			msgs = append(msgs, line)
		}
	}
	return msgs
}
