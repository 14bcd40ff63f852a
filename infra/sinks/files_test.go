package sinks

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSinkCSV(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewFileSink(FileConfig{Folder: dir}, FormatCSV)
	require.NoError(t, err)
	require.NoError(t, sink.Write(context.Background(), testRun(), testTables(t)))

	f, err := os.Open(filepath.Join(dir, "winter", "res_bus.vm_pu.csv"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Time", "Grid", "Feeder"},
		{"00:00:00", "1", "0.99"},
		{"06:00:00", "1", "0.98"},
		{"12:00:00", "1", ""},
	}, rows)
	assert.FileExists(t, filepath.Join(dir, "winter", "res_line.loading_percent.csv"))
}

func TestFileSinkJSON(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewFileSink(FileConfig{Folder: dir}, FormatJSON)
	require.NoError(t, err)
	run := testRun()
	run.Name = ""
	require.NoError(t, sink.Write(context.Background(), run, testTables(t)))

	data, err := os.ReadFile(filepath.Join(dir, "run-1", "res_line.loading_percent.json"))
	require.NoError(t, err)
	var records []struct {
		Time   string             `json:"time"`
		Values map[string]float64 `json:"values"`
	}
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 3)
	assert.Equal(t, 20.0, records[1].Values["Cable"])
}

func TestFileSinkUnknownFormat(t *testing.T) {
	_, err := NewFileSink(FileConfig{}, "parquet")
	assert.Error(t, err)
}
