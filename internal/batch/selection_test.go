package batch

import (
	"testing"

	"github.com/stretchr/testify/require"

	api "github.com/docflow/docflow/api/v1alpha1"
)

func TestSelectionToggle(t *testing.T) {
	s := NewSelectionSet()

	s.Toggle("a")
	s.Toggle("b")
	s.Toggle("c")
	require.Equal(t, []string{"a", "b", "c"}, s.IDs())
	require.True(t, s.Contains("b"))

	// Toggling an existing id removes it, order of the rest is kept.
	s.Toggle("b")
	require.Equal(t, []string{"a", "c"}, s.IDs())
	require.False(t, s.Contains("b"))

	s.Toggle("b")
	require.Equal(t, []string{"a", "c", "b"}, s.IDs())
	require.Equal(t, 3, s.Len())
}

func TestSelectionClear(t *testing.T) {
	s := NewSelectionSet()
	s.Toggle("a")
	s.Toggle("b")

	s.Clear()
	require.Empty(t, s.IDs())
	require.Equal(t, 0, s.Len())
}

func TestSelectionReplaceFilterAndClear(t *testing.T) {
	s := NewSelectionSet()
	s.Toggle("a")

	min := 10.0
	s.ReplaceFilterAndClear(Filters{
		InvoiceType: api.DocumentTypeReceipt,
		MinAmount:   &min,
	})

	require.Empty(t, s.IDs())
	filters := s.Filters()
	require.Equal(t, api.DocumentTypeReceipt, filters.InvoiceType)
	require.Equal(t, &min, filters.MinAmount)
}

func TestSelectionIDsReturnsCopy(t *testing.T) {
	s := NewSelectionSet()
	s.Toggle("a")

	ids := s.IDs()
	ids[0] = "mutated"
	require.Equal(t, []string{"a"}, s.IDs())
}
