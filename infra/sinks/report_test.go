package sinks

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLSinkRendersOneChartPerTable(t *testing.T) {
	dir := t.TempDir()
	sink := NewHTMLSink(HTMLConfig{Folder: dir})
	require.NoError(t, sink.Write(context.Background(), testRun(), testTables(t)))

	data, err := os.ReadFile(filepath.Join(dir, "winter.html"))
	require.NoError(t, err)
	page := string(data)
	assert.Contains(t, page, "res_bus.vm_pu")
	assert.Contains(t, page, "res_line.loading_percent")
	assert.Contains(t, page, "Feeder")
	assert.Contains(t, page, "06:00:00")
}

func TestPNGSinkWritesPlots(t *testing.T) {
	dir := t.TempDir()
	sink := NewPNGSink(PNGConfig{Folder: dir, WidthCM: 10, HeightCM: 6})
	require.NoError(t, sink.Write(context.Background(), testRun(), testTables(t)))

	for _, key := range []string{"res_bus.vm_pu", "res_line.loading_percent"} {
		data, err := os.ReadFile(filepath.Join(dir, "winter", key+".png"))
		require.NoError(t, err, key)
		assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), key)
	}
}
