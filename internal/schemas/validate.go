// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schemas validates generated report files against embedded JSON
// Schemas.
package schemas

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed files/*.schema.json
var files embed.FS

// Kind names a generated file type.
type Kind string

const (
	KindIndex    Kind = "index"
	KindDocument Kind = "document"
)

// ValidationError represents a schema validation error with field paths.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or compiling a schema.
type SchemaLoadError struct {
	Kind  Kind
	Cause error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("failed to load %s schema: %v", e.Kind, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// Schema returns the JSON Schema text for kind.
func Schema(kind Kind) (string, error) {
	data, err := files.ReadFile("files/" + string(kind) + ".schema.json")
	if err != nil {
		return "", &SchemaLoadError{Kind: kind, Cause: err}
	}
	return string(data), nil
}

// Validate checks data against the schema for kind. It returns a
// *ValidationError when data is well-formed JSON that does not conform.
func Validate(kind Kind, data []byte) error {
	schema, err := Schema(kind)
	if err != nil {
		return err
	}
	if !json.Valid(data) {
		return fmt.Errorf("malformed JSON")
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return &SchemaLoadError{Kind: kind, Cause: err}
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}

// ValidateFile validates the file at path against the schema for kind.
func ValidateFile(kind Kind, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := Validate(kind, data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// FileError is a validation failure for one generated file.
type FileError struct {
	Path string
	Err  error
}

// Report is the outcome of validating an output directory.
type Report struct {
	Checked int
	Errors  []FileError
}

// OK reports whether every file validated.
func (r Report) OK() bool {
	return len(r.Errors) == 0
}

// catalogEntry holds the index fields needed to locate and cross-check a
// document file.
type catalogEntry struct {
	Slug        string `json:"slug"`
	Version     string `json:"version"`
	IssuesCount int    `json:"issuesCount"`
}

// ValidateOutput validates index.json in outDir and every document file
// it lists. It also checks that each entry's issuesCount matches the
// document. The error is non-nil only when index.json cannot be read.
func ValidateOutput(outDir string) (Report, error) {
	var r Report

	indexPath := filepath.Join(outDir, "index.json")
	data, err := os.ReadFile(indexPath)
	if err != nil {
		return r, fmt.Errorf("reading %s: %w", indexPath, err)
	}

	r.Checked++
	if err := Validate(KindIndex, data); err != nil {
		r.Errors = append(r.Errors, FileError{Path: indexPath, Err: err})
		return r, nil
	}

	var entries []catalogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		r.Errors = append(r.Errors, FileError{Path: indexPath, Err: err})
		return r, nil
	}

	for _, e := range entries {
		path := filepath.Join(outDir, e.Slug, e.Version+".json")
		r.Checked++

		doc, err := os.ReadFile(path)
		if err != nil {
			r.Errors = append(r.Errors, FileError{Path: path, Err: err})
			continue
		}
		if err := Validate(KindDocument, doc); err != nil {
			r.Errors = append(r.Errors, FileError{Path: path, Err: err})
			continue
		}

		var d struct {
			Issues []json.RawMessage `json:"issues"`
		}
		if err := json.Unmarshal(doc, &d); err != nil {
			r.Errors = append(r.Errors, FileError{Path: path, Err: err})
			continue
		}
		if len(d.Issues) != e.IssuesCount {
			r.Errors = append(r.Errors, FileError{
				Path: path,
				Err:  fmt.Errorf("index lists %d issues, document has %d", e.IssuesCount, len(d.Issues)),
			})
		}
	}

	return r, nil
}
