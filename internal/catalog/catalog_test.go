// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/report-engine/pkg/types"
)

func issuesAt(levels ...types.RiskLevel) []types.Issue {
	out := make([]types.Issue, len(levels))
	for i, l := range levels {
		out[i] = types.Issue{RiskLevel: l}
	}
	return out
}

func reportURL(d types.Document) string {
	return "/reports/" + d.Slug + "/" + d.Version
}

func TestCounts(t *testing.T) {
	c := Counts(issuesAt(
		types.RiskHigh, types.RiskHigh, types.RiskHigh,
		types.RiskMedium, types.RiskMedium,
	))
	assert.Equal(t, types.RiskCounts{High: 3, Medium: 2}, c)
	assert.Equal(t, map[types.RiskLevel]int{
		types.RiskHigh: 3, types.RiskMedium: 2, types.RiskLow: 0, types.RiskTriggered: 0,
	}, c.Map())
}

func TestCounts_OtherNotCounted(t *testing.T) {
	c := Counts(issuesAt(types.RiskOther, types.RiskLow, types.RiskTriggered))
	assert.Equal(t, types.RiskCounts{Low: 1, Triggered: 1}, c)
	assert.Equal(t, 2, c.Total())
}

func TestEntry(t *testing.T) {
	doc := types.Document{
		Slug:    "acme",
		Version: "v2",
		Title:   "Acme Review",
		Date:    "2024-01-01",
		Source:  "/docs/acme-v2.docx",
		Issues: issuesAt(
			types.RiskHigh, types.RiskHigh, types.RiskHigh,
			types.RiskMedium, types.RiskMedium,
		),
	}

	e := Entry(doc, reportURL(doc))
	assert.Equal(t, 5, e.IssuesCount)
	assert.Equal(t, 3, e.High)
	assert.Equal(t, 2, e.Medium)
	assert.Equal(t, 0, e.Low)
	assert.Equal(t, 0, e.Triggered)
	assert.Equal(t, "/reports/acme/v2", e.URL)
	assert.Equal(t, "/docs/acme-v2.docx", e.Source)
}

func TestEntry_FlatJSON(t *testing.T) {
	e := Entry(types.Document{Slug: "a", Version: "v1", Issues: issuesAt(types.RiskLow)}, "/reports/a/v1")
	data, err := json.Marshal(e)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	for _, key := range []string{"slug", "version", "title", "url", "issuesCount", "high", "medium", "low", "triggered"} {
		assert.Contains(t, m, key)
	}
	assert.EqualValues(t, 1, m["low"])
}

func TestBuild_Ordering(t *testing.T) {
	docs := []types.Document{
		{Slug: "old", Version: "v1", Date: "2023-05-01"},
		{Slug: "undated", Version: "v1"},
		{Slug: "new-a", Version: "v1", Date: "2024-01-01"},
		{Slug: "new-b", Version: "v1", Date: "2024-01-01"},
		{Slug: "mid", Version: "v1", Date: "2023-11-15"},
		{Slug: "new-c", Version: "v1", Date: "2024-01-01"},
	}

	cat := Build(docs, reportURL)
	require.Len(t, cat, len(docs))

	var got []string
	for _, e := range cat {
		got = append(got, e.Slug)
	}
	assert.Equal(t, []string{"new-a", "new-b", "new-c", "mid", "old", "undated"}, got)
}

func TestBuild_Idempotent(t *testing.T) {
	docs := []types.Document{
		{Slug: "a", Version: "v1", Date: "2024-02-01", Issues: issuesAt(types.RiskHigh)},
		{Slug: "b", Version: "v1", Date: "2024-02-01", Issues: issuesAt(types.RiskLow, types.RiskOther)},
	}

	first, err := json.Marshal(Build(docs, reportURL))
	require.NoError(t, err)
	second, err := json.Marshal(Build(docs, reportURL))
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))
	assert.Equal(t, first, second)
}

func TestBuild_Empty(t *testing.T) {
	cat := Build(nil, reportURL)
	assert.NotNil(t, cat)
	assert.Empty(t, cat)
}
