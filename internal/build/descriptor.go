// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package build

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/report-engine/pkg/types"
)

// ErrMissingSource marks a descriptor whose report document is not
// declared or does not exist. Such descriptors are skipped, not fatal.
var ErrMissingSource = errors.New("source document missing")

// Job is one descriptor read from the content directory.
type Job struct {
	// File is the descriptor path, used in messages.
	File       string
	Descriptor types.Descriptor
}

var validate = validator.New()

// LoadDescriptors reads every .json, .yaml and .yml file in dir as a
// Descriptor. Jobs are returned in file name order. A descriptor that
// cannot be parsed or lacks a slug or version is an error.
func LoadDescriptors(dir string) ([]Job, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading content directory %s: %w", dir, err)
	}

	var jobs []Job
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(dir, e.Name())
		d, err := readDescriptor(path, ext)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, Job{File: path, Descriptor: d})
	}
	return jobs, nil
}

func readDescriptor(path, ext string) (types.Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Descriptor{}, fmt.Errorf("reading descriptor: %w", err)
	}

	var d types.Descriptor
	if ext == ".json" {
		err = json.Unmarshal(data, &d)
	} else {
		err = yaml.Unmarshal(data, &d)
	}
	if err != nil {
		return types.Descriptor{}, fmt.Errorf("parsing descriptor %s: %w", path, err)
	}

	if err := validate.Struct(d); err != nil {
		return types.Descriptor{}, fmt.Errorf("invalid descriptor %s: %w", path, err)
	}
	if SafeSlug(d.Slug) == "" || SafeSlug(d.Version) == "" {
		return types.Descriptor{}, fmt.Errorf("invalid descriptor %s: slug and version must contain letters or digits", path)
	}
	return d, nil
}

// SafeSlug lower-cases s and reduces it to letters, digits and dashes so it
// can be used as a path segment.
func SafeSlug(s string) string {
	return slug.Make(s)
}

// ResolveSource returns the path of a descriptor's source document under
// publicDir. Sources are authored as site paths, so a leading slash is
// dropped.
func ResolveSource(publicDir, source string) string {
	return filepath.Join(publicDir, filepath.FromSlash(strings.TrimPrefix(source, "/")))
}

// sourcePath resolves and checks the source of d. The returned error wraps
// ErrMissingSource when there is nothing to convert.
func sourcePath(publicDir string, d types.Descriptor) (string, error) {
	if d.Source == "" {
		return "", fmt.Errorf("no docx declared: %w", ErrMissingSource)
	}
	path := ResolveSource(publicDir, d.Source)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", path, ErrMissingSource)
		}
		return "", fmt.Errorf("checking %s: %w", path, err)
	}
	return path, nil
}
