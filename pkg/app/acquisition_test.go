package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotfilm/pkg/sample"
)

func TestLatestDataEmptyUntilFirstWindow(t *testing.T) {
	l := &latestData{}
	_, _, ok := l.snapshot()
	assert.False(t, ok)
}

func TestLatestDataKeepsMostRecentWindow(t *testing.T) {
	l := &latestData{}

	l.Publish(&sample.Diagnostic{EdgeIndex: 100})
	l.Publish(&sample.Stats{Channel: "AIN0", Mean: 1})
	l.Publish(&sample.Stats{Channel: "AIN2", Mean: 2})

	// the diagnostic opens the next window and resets the stats list
	l.Publish(&sample.Diagnostic{EdgeIndex: 200})
	l.Publish(&sample.Stats{Channel: "AIN0", Mean: 3})

	diag, stats, ok := l.snapshot()
	require.True(t, ok)
	assert.Equal(t, 200, diag.EdgeIndex)
	require.Len(t, stats, 1)
	assert.Equal(t, 3.0, stats[0].Mean)
}

func TestLatestDataIgnoresSeries(t *testing.T) {
	l := &latestData{}
	l.Publish(&sample.Diagnostic{})
	l.Publish(&sample.Series{Channel: "AIN0", Values: []float64{1, 2, 3}})

	_, stats, ok := l.snapshot()
	require.True(t, ok)
	assert.Empty(t, stats)
}

func TestLatestDataSnapshotIsACopy(t *testing.T) {
	l := &latestData{}
	l.Publish(&sample.Diagnostic{})
	l.Publish(&sample.Stats{Mean: 1})

	_, stats, _ := l.snapshot()
	stats[0].Mean = 42

	_, again, _ := l.snapshot()
	assert.Equal(t, 1.0, again[0].Mean)
}

func TestVersionString(t *testing.T) {
	assert.Equal(t, "hotfilm V1.6.08", Version())
}
