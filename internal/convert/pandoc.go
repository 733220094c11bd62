// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/pdiddy/report-engine/internal/container"
)

// pandocArgs reads DOCX on stdin and writes unwrapped HTML5.
var pandocArgs = []string{"--from", "docx", "--to", "html5", "--wrap", "none"}

// PandocConverter converts DOCX files by piping them through a pandoc
// container image. It depends on a container.Runtime (docker or podman)
// injected at construction time.
type PandocConverter struct {
	runtime container.Runtime
	image   string
}

// NewPandocConverter creates a converter that uses the given container
// runtime to run image. It verifies that the image exists locally before
// returning.
func NewPandocConverter(rt container.Runtime, image string) (*PandocConverter, error) {
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("pandoc image not available in %s: %w", rt.Name(), err)
	}
	return &PandocConverter{runtime: rt, image: image}, nil
}

// Convert reads the document at path, pipes it through pandoc, and returns
// the HTML. Lines pandoc writes to stderr become conversion messages.
func (p *PandocConverter) Convert(ctx context.Context, path string) (Conversion, error) {
	f, err := os.Open(path)
	if err != nil {
		return Conversion{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var out, diag bytes.Buffer
	err = p.runtime.Run(ctx, p.image, pandocArgs, container.Streams{
		Stdin:  f,
		Stdout: &out,
		Stderr: &diag,
	})
	if err != nil {
		if diag.Len() > 0 {
			return Conversion{}, fmt.Errorf("converting %s with pandoc: %w: %s", path, err, bytes.TrimSpace(diag.Bytes()))
		}
		return Conversion{}, fmt.Errorf("converting %s with pandoc: %w", path, err)
	}

	if out.Len() == 0 {
		return Conversion{}, fmt.Errorf("pandoc produced empty output for %s", path)
	}

	return Conversion{
		HTML:     out.String(),
		Messages: splitMessages(diag.String()),
	}, nil
}
