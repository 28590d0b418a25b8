package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/duckbridge/internal/duckcli"
)

func catalogEntries() []duckcli.CompletionEntry {
	return []duckcli.CompletionEntry{
		{Label: "SELECT", Kind: "keyword", SortText: "0_SELECT"},
		{Label: "SUM", Kind: "function", Detail: "(arg: ANY) -> HUGEINT", SortText: "2_SUM"},
		{Label: "SUMMARIZE", Kind: "keyword", SortText: "1_SUMMARIZE"},
		{Label: "ABS", Kind: "function", Detail: "(x: DOUBLE) -> DOUBLE", SortText: "2_ABS"},
	}
}

func TestFilterEntriesByKind(t *testing.T) {
	got := filterEntries(catalogEntries(), "", "function")
	require.Len(t, got, 2)
	for _, entry := range got {
		assert.Equal(t, "function", entry.Kind)
	}
}

func TestFilterEntriesByPrefix(t *testing.T) {
	got := filterEntries(catalogEntries(), "sum", "")
	require.Len(t, got, 2)
	assert.Equal(t, "SUM", got[0].Label)
	assert.Equal(t, "SUMMARIZE", got[1].Label)
}

func TestFilterEntriesPrefixAndKind(t *testing.T) {
	got := filterEntries(catalogEntries(), "s", "keyword")
	require.Len(t, got, 2)
	assert.Equal(t, "SELECT", got[0].Label)
	assert.Equal(t, "SUMMARIZE", got[1].Label)
}

func TestRenderCatalogTable(t *testing.T) {
	buf := new(bytes.Buffer)
	renderCatalogTable(buf, catalogEntries())

	out := buf.String()
	assert.Contains(t, out, "SELECT")
	assert.Contains(t, out, "(arg: ANY) -> HUGEINT")
	assert.Contains(t, out, "(4 entries)")
}

func TestRenderCatalogTableEmpty(t *testing.T) {
	buf := new(bytes.Buffer)
	renderCatalogTable(buf, nil)

	assert.Contains(t, buf.String(), "(0 entries)")
}
