package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFRendererOutput(t *testing.T) {
	r := NewPDFRenderer()

	out, err := r.Render([]ShoppingListItem{
		{Name: "Salt", MeasurementUnit: "g", Amount: 25},
		{Name: "Flour", MeasurementUnit: "g", Amount: 200},
	})
	require.NoError(t, err)
	assert.True(t, len(out) > 100)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestPDFRendererEmptyList(t *testing.T) {
	r := NewPDFRenderer()

	out, err := r.Render(nil)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestPDFRendererMetadata(t *testing.T) {
	r := NewPDFRenderer()
	assert.Equal(t, "application/pdf", r.ContentType())
	assert.Equal(t, "shopping_list.pdf", r.Filename())
}
