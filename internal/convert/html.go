// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"os"
)

// HTMLConverter reads sources that are already HTML.
type HTMLConverter struct{}

// Convert implements Converter.
func (HTMLConverter) Convert(_ context.Context, path string) (Conversion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Conversion{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return Conversion{HTML: string(data), Messages: []string{}}, nil
}
