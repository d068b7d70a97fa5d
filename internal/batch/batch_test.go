package batch

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pspoerri/surveygrid/internal/coord"
	"github.com/pspoerri/surveygrid/internal/encode"
	"github.com/pspoerri/surveygrid/internal/render"
)

const referenceSurvey = `{
	"inline_range": [100, 500, 1],
	"crline_range": [100, 500, 1],
	"z_range": [3000, 4, "Time", 0],
	"point_A": [100, 100, 500000, 6000000],
	"point_B": [100, 500, 502000, 6000000],
	"point_C": [500, 500, 502000, 6004000]
}`

// A and B share a crossline, so no transform exists.
const degenerateSurvey = `{
	"inline_range": [100, 500, 1],
	"crline_range": [100, 500, 1],
	"z_range": [3000, 4, "Time", 0],
	"point_A": [100, 100, 500000, 6000000],
	"point_B": [200, 100, 502000, 6000000],
	"point_C": [500, 500, 502000, 6004000]
}`

type memSink struct {
	mu    sync.Mutex
	names []string
	err   error
}

func (m *memSink) Put(_ context.Context, s coord.Summary) (uuid.UUID, error) {
	if m.err != nil {
		return uuid.Nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names = append(m.names, s.Name)
	return uuid.New(), nil
}

func writeSurvey(t *testing.T, path, doc string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestProcess_WritesOutputs(t *testing.T) {
	dir := t.TempDir()
	in := []string{
		writeSurvey(t, filepath.Join(dir, "north.survey"), referenceSurvey),
		writeSurvey(t, filepath.Join(dir, "south", ".survey"), referenceSurvey),
	}
	out := filepath.Join(dir, "out")

	enc, err := encode.NewEncoder("png", 0)
	require.NoError(t, err)
	opts := render.DefaultOptions()
	opts.Width, opts.Height = 200, 150

	sink := &memSink{}
	stats, err := Process(context.Background(), Config{
		Concurrency: 2,
		OutputDir:   out,
		Summary:     true,
		Preview:     true,
		Render:      opts,
		Encoder:     enc,
		Plot:        true,
		PlotFormat:  "svg",
	}, in, sink)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.Surveys)
	assert.Equal(t, int64(0), stats.Failed)
	assert.Equal(t, int64(6), stats.Files)
	assert.Positive(t, stats.TotalBytes)
	assert.ElementsMatch(t, []string{"north", "south"}, sink.names)

	for _, f := range []string{"north.json", "north.png", "north_map.svg", "south.json", "south.png", "south_map.svg"} {
		assert.FileExists(t, filepath.Join(out, f))
	}

	data, err := os.ReadFile(filepath.Join(out, "north.json"))
	require.NoError(t, err)
	var s coord.Summary
	require.NoError(t, json.Unmarshal(data, &s))
	assert.Equal(t, 90.0, s.Orientation.Azimuth)
	assert.Equal(t, 10.0, s.Bins.InlineBinSize)
	assert.Equal(t, 5.0, s.Bins.CrlineBinSize)
}

func TestProcess_SkipsBadSurveys(t *testing.T) {
	dir := t.TempDir()
	in := []string{
		writeSurvey(t, filepath.Join(dir, "good.survey"), referenceSurvey),
		writeSurvey(t, filepath.Join(dir, "degenerate.survey"), degenerateSurvey),
		writeSurvey(t, filepath.Join(dir, "broken.survey"), `{"inline_range": [1, 2`),
	}

	sink := &memSink{}
	stats, err := Process(context.Background(), Config{Concurrency: 3}, in, sink)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Surveys)
	assert.Equal(t, int64(2), stats.Failed)
	assert.Equal(t, int64(0), stats.Files)
	assert.Equal(t, []string{"good"}, sink.names)
}

func TestProcess_SinkErrorAborts(t *testing.T) {
	dir := t.TempDir()
	in := []string{writeSurvey(t, filepath.Join(dir, "a.survey"), referenceSurvey)}

	boom := errors.New("disk full")
	_, err := Process(context.Background(), Config{Concurrency: 1}, in, &memSink{err: boom})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "storing a")
}

func TestProcess_Cancelled(t *testing.T) {
	dir := t.TempDir()
	in := []string{writeSurvey(t, filepath.Join(dir, "a.survey"), referenceSurvey)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Process(ctx, Config{Concurrency: 1}, in, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcess_Validation(t *testing.T) {
	_, err := Process(context.Background(), Config{}, nil, nil)
	assert.Error(t, err)

	_, err = Process(context.Background(), Config{OutputDir: t.TempDir(), Preview: true}, []string{"x.survey"}, nil)
	assert.ErrorContains(t, err, "encoder")
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	a := writeSurvey(t, filepath.Join(dir, "a.survey"), referenceSurvey)
	hidden := writeSurvey(t, filepath.Join(dir, "F3", ".survey"), referenceSurvey)
	writeSurvey(t, filepath.Join(dir, "notes.txt"), "x")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty"), 0o755))

	got, err := Collect([]string{dir, a})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "F3", ".survey"), a}, got)
	assert.Contains(t, got, hidden)

	_, err = Collect([]string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}

func TestFileBase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"F3", "F3"},
		{"North Sea/Block 7", "North_Sea_Block_7"},
		{"  ", "survey"},
		{"..", "survey"},
	}
	for _, tt := range tests {
		if got := FileBase(tt.in); got != tt.want {
			t.Errorf("FileBase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
