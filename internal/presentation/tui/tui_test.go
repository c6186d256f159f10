package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/weft/internal/presentation/tui"
	"github.com/aretw0/weft/pkg/segment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind(t *testing.T) {
	assert.Contains(t, tui.Kind(segment.KindString), "[string]")
	assert.Contains(t, tui.Kind(segment.Kind("custom")), "[custom]")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)
	assert.Contains(t, buf.String(), "\\_/\\_/")
}

func TestNewRenderer(t *testing.T) {
	render, err := tui.NewRenderer()
	require.NoError(t, err)

	out, err := render("# Title\n\n- item")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "item")
}
