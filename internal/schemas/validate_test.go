// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/report-engine/pkg/types"
)

func sampleDocument() types.Document {
	return types.Document{
		Slug: "acme", Version: "v1", Title: "Acme v1", Date: "2024-01-01",
		Source: "/reports/acme.docx",
		HTML:   "<h2>High</h2>",
		Issues: []types.Issue{{
			ID: "issue-1", RiskLevel: types.RiskHigh, SectionTitle: "High",
			Finding: "Weak TLS", Recommendation: "Upgrade", Raw: []string{"Weak TLS", "Upgrade"},
		}},
		ConversionMessages: []string{},
	}
}

func sampleIndex() types.Catalog {
	return types.Catalog{{
		Slug: "acme", Version: "v1", Title: "Acme v1", Date: "2024-01-01",
		URL: "/reports/acme/v1", IssuesCount: 1, RiskCounts: types.RiskCounts{High: 1},
	}}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func writeOutput(t *testing.T, index types.Catalog, docs ...types.Document) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.json"), mustJSON(t, index), 0o644))
	for _, d := range docs {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, d.Slug), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, d.Slug, d.Version+".json"), mustJSON(t, d), 0o644))
	}
	return dir
}

func TestSchemasEmbedded(t *testing.T) {
	for _, k := range []Kind{KindIndex, KindDocument} {
		s, err := Schema(k)
		require.NoError(t, err)
		assert.True(t, json.Valid([]byte(s)), k)
	}

	_, err := Schema("catalogue")
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, Validate(KindDocument, mustJSON(t, sampleDocument())))
	assert.NoError(t, Validate(KindIndex, mustJSON(t, sampleIndex())))
	assert.NoError(t, Validate(KindIndex, []byte("[]")))
}

func TestValidate_Invalid(t *testing.T) {
	badLevel := sampleDocument()
	badLevel.Issues[0].RiskLevel = "critical"

	badID := sampleDocument()
	badID.Issues[0].ID = "issue-0"

	badSlug := sampleIndex()
	badSlug[0].Slug = "Acme Corp"

	tests := []struct {
		name string
		kind Kind
		data []byte
		want string
	}{
		{"unknown risk level", KindDocument, mustJSON(t, badLevel), "issues.0.riskLevel"},
		{"zero issue id", KindDocument, mustJSON(t, badID), "issues.0.id"},
		{"missing html", KindDocument, []byte(`{"slug":"a","version":"1","title":"t","notes":"","issues":[],"conversionMessages":[]}`), "html"},
		{"unslugged index entry", KindIndex, mustJSON(t, badSlug), "0.slug"},
		{"index not an array", KindIndex, []byte(`{}`), "Expected: array"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.kind, tt.data)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.NotEmpty(t, verr.Errors)
			assert.Contains(t, err.Error(), "validation failed")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_Malformed(t *testing.T) {
	err := Validate(KindIndex, []byte("{ invalid json }"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed JSON")
}

func TestValidateFile(t *testing.T) {
	dir := writeOutput(t, sampleIndex(), sampleDocument())
	assert.NoError(t, ValidateFile(KindDocument, filepath.Join(dir, "acme", "v1.json")))

	err := ValidateFile(KindDocument, filepath.Join(dir, "index.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index.json")

	err = ValidateFile(KindIndex, filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateOutput(t *testing.T) {
	t.Run("consistent output", func(t *testing.T) {
		r, err := ValidateOutput(writeOutput(t, sampleIndex(), sampleDocument()))
		require.NoError(t, err)
		assert.True(t, r.OK(), "%+v", r.Errors)
		assert.Equal(t, 2, r.Checked)
	})

	t.Run("missing document file", func(t *testing.T) {
		r, err := ValidateOutput(writeOutput(t, sampleIndex()))
		require.NoError(t, err)
		require.Len(t, r.Errors, 1)
		assert.ErrorIs(t, r.Errors[0].Err, os.ErrNotExist)
	})

	t.Run("count mismatch", func(t *testing.T) {
		idx := sampleIndex()
		idx[0].IssuesCount = 3
		r, err := ValidateOutput(writeOutput(t, idx, sampleDocument()))
		require.NoError(t, err)
		require.Len(t, r.Errors, 1)
		assert.Contains(t, r.Errors[0].Err.Error(), "index lists 3 issues, document has 1")
	})

	t.Run("invalid index stops", func(t *testing.T) {
		idx := sampleIndex()
		idx[0].Version = "V 1"
		r, err := ValidateOutput(writeOutput(t, idx, sampleDocument()))
		require.NoError(t, err)
		assert.Equal(t, 1, r.Checked)
		require.Len(t, r.Errors, 1)
	})

	t.Run("no index", func(t *testing.T) {
		_, err := ValidateOutput(t.TempDir())
		assert.Error(t, err)
	})
}
