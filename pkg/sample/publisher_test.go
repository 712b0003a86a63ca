package sample

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotfilm/pkg/scan"
)

func testScanList() []scan.Channel {
	return []scan.Channel{
		{Name: "DIO0_EF_READ_A", Counter: true},
		{Name: "AIN0"},
		{Name: "AIN2"},
	}
}

func testIDs() IDMap {
	return IDMap{
		Diagnostic: 501,
		Series:     []uint32{502, 520, 521},
		Stats:      []uint32{510, 511},
	}
}

func TestPublishWindowOrderAndContent(t *testing.T) {
	sink := NewBroadcast()
	rec := &recorder{}
	sink.Attach(rec)

	p := NewPublisher(sink, testScanList(), testIDs())

	ts := time.Unix(200, 250*int64(time.Millisecond))
	w := Window{
		Time: ts,
		Series: [][]float64{
			{100, 101},
			{0.1, 0.2},
			{1.5, 1.6},
		},
		Stats: []ChannelStats{
			{Mean: 0.15, Min: 0.1, Max: 0.2},
			{Mean: 1.55, Min: 1.5, Max: 1.6},
		},
		Counter:       101,
		EdgeIndex:     1500,
		DeviceBacklog: 3,
		QueueBacklog:  7,
		ReadTime:      42 * time.Millisecond,
		Offset:        800 * time.Millisecond,
		SkippedScans:  2,
	}
	p.PublishWindow(w)

	require.Len(t, rec.records, 6)

	diag, ok := rec.records[0].(*Diagnostic)
	require.True(t, ok, "first record must be the diagnostic")
	assert.Equal(t, uint32(501), diag.ID)
	assert.True(t, diag.Time.Equal(ts))
	assert.Equal(t, 101.0, diag.Counter)
	assert.Equal(t, 1500, diag.EdgeIndex)
	assert.Equal(t, 3, diag.DeviceBacklog)
	assert.Equal(t, 7, diag.QueueBacklog)
	assert.Equal(t, 42.0, diag.ReadTimeMs)
	assert.Equal(t, 800*time.Millisecond, diag.Offset)
	assert.Equal(t, 2, diag.SkippedScans)

	wantSeries := []struct {
		id      uint32
		channel string
	}{
		{502, "DIO0_EF_READ_A"},
		{520, "AIN0"},
		{521, "AIN2"},
	}
	for i, want := range wantSeries {
		s, ok := rec.records[1+i].(*Series)
		require.True(t, ok, "record %d must be a series", 1+i)
		assert.Equal(t, want.id, s.ID)
		assert.Equal(t, want.channel, s.Channel)
		assert.Equal(t, w.Series[i], s.Values)
		assert.True(t, s.Time.Equal(ts))
	}

	wantStats := []struct {
		id      uint32
		channel string
		mean    float64
	}{
		{510, "AIN0", 0.15},
		{511, "AIN2", 1.55},
	}
	for i, want := range wantStats {
		st, ok := rec.records[4+i].(*Stats)
		require.True(t, ok, "record %d must be stats", 4+i)
		assert.Equal(t, want.id, st.ID)
		assert.Equal(t, want.channel, st.Channel)
		assert.Equal(t, want.mean, st.Mean)
	}
}

func TestPublishWindowNoStatsForCounter(t *testing.T) {
	sink := NewBroadcast()
	rec := &recorder{}
	sink.Attach(rec)

	p := NewPublisher(sink, testScanList(), testIDs())
	p.PublishWindow(Window{
		Series: [][]float64{{1}, {2}, {3}},
		Stats:  []ChannelStats{{}, {}},
	})

	var statChannels []string
	for _, r := range rec.records {
		if st, ok := r.(*Stats); ok {
			statChannels = append(statChannels, st.Channel)
		}
	}
	assert.Equal(t, []string{"AIN0", "AIN2"}, statChannels)
}

func TestPublishWindowEmitsEachWindowOnce(t *testing.T) {
	sink := NewBroadcast()
	rec := &recorder{}
	sink.Attach(rec)

	p := NewPublisher(sink, testScanList(), testIDs())
	for i := 0; i < 3; i++ {
		p.PublishWindow(Window{
			Time:   time.Unix(int64(100+i), 0),
			Series: [][]float64{{1}, {2}, {3}},
			Stats:  []ChannelStats{{}, {}},
		})
	}

	// one diagnostic, three series, two stats per window
	require.Len(t, rec.records, 18)
	for i := 0; i < 3; i++ {
		diag, ok := rec.records[i*6].(*Diagnostic)
		require.True(t, ok)
		assert.Equal(t, int64(100+i), diag.Time.Unix())
	}
}
