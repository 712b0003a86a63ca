package labjack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotfilm/pkg/scan"
)

func simConfig() StreamConfig {
	return StreamConfig{
		Channels:       []string{"DIO0_EF_READ_A", "AIN0", "AIN2"},
		ScanRate:       2000,
		CounterEnabled: true,
	}
}

func startedSimulator(t *testing.T) *Simulator {
	t.Helper()
	d := NewSimulator()
	require.NoError(t, d.Open())
	require.NoError(t, d.Configure(simConfig()))
	rate, err := d.StartStream(500)
	require.NoError(t, err)
	require.Equal(t, 2000.0, rate)
	return d
}

func TestSimulatorLifecycleGuards(t *testing.T) {
	d := NewSimulator()

	assert.ErrorIs(t, d.Configure(simConfig()), ErrNotOpen)
	_, err := d.StartStream(500)
	assert.ErrorIs(t, err, ErrNotOpen)

	require.NoError(t, d.Open())
	require.NoError(t, d.Configure(simConfig()))

	b := scan.NewBlock(3, 500)
	_, _, err = d.ReadBlock(b)
	assert.ErrorIs(t, err, ErrNotStreaming)
	assert.ErrorIs(t, d.StopStream(), ErrNotStreaming)
}

func TestSimulatorRejectsMismatchedBlock(t *testing.T) {
	d := startedSimulator(t)

	b := scan.NewBlock(2, 500)
	_, _, err := d.ReadBlock(b)
	assert.ErrorIs(t, err, ErrDevice)
}

func TestSimulatorStreamContent(t *testing.T) {
	d := startedSimulator(t)
	b := scan.NewBlock(3, 500)

	var counter []float64
	for i := 0; i < 8; i++ {
		_, _, err := d.ReadBlock(b)
		require.NoError(t, err)

		for s := 0; s < b.Scans(); s++ {
			counter = append(counter, b.Value(0, s))
			for c := 1; c < 3; c++ {
				v := b.Value(c, s)
				assert.GreaterOrEqual(t, v, -1.0)
				assert.LessOrEqual(t, v, 1.0)
			}
		}
	}

	// the counter carries whole seconds: it never decreases and steps by
	// one; 4000 scans at 2 kHz cover two seconds of simulated time
	steps := 0
	for i := 1; i < len(counter); i++ {
		require.GreaterOrEqual(t, counter[i], counter[i-1])
		if counter[i] != counter[i-1] {
			assert.Equal(t, counter[i-1]+1, counter[i])
			steps++
		}
	}
	assert.GreaterOrEqual(t, steps, 1)
	assert.LessOrEqual(t, steps, 3)
}

func TestSimulatorSkipInjection(t *testing.T) {
	d := NewSimulator()
	d.SkipEvery = 100
	require.NoError(t, d.Open())
	require.NoError(t, d.Configure(simConfig()))
	_, err := d.StartStream(500)
	require.NoError(t, err)

	b := scan.NewBlock(3, 500)
	_, _, err = d.ReadBlock(b)
	require.NoError(t, err)

	// 1500 cells per read, every 100th becomes a placeholder
	assert.Equal(t, 15, b.CountSkipped())
}

func TestSimulatorFailAfterReads(t *testing.T) {
	d := startedSimulator(t)
	d.FailAfterReads = 2

	b := scan.NewBlock(3, 500)
	for i := 0; i < 2; i++ {
		_, _, err := d.ReadBlock(b)
		require.NoError(t, err)
	}
	_, _, err := d.ReadBlock(b)
	assert.ErrorIs(t, err, ErrDevice)
}

func TestHandleInfoString(t *testing.T) {
	info := HandleInfo{
		DeviceType:     DeviceTypeT7,
		ConnectionType: ConnectionTypeEthernet,
		SerialNumber:   470010123,
		IPAddress:      "192.168.1.207",
		Port:           502,
	}
	s := info.String()
	assert.Contains(t, s, "deviceType: T7")
	assert.Contains(t, s, "connectionType: ETHERNET")
	assert.Contains(t, s, "470010123")

	assert.Equal(t, "DEMO", DeviceTypeName(DeviceTypeDemo))
	assert.Equal(t, "unknown device type", DeviceTypeName(42))
	assert.Equal(t, "unknown connection type", ConnectionTypeName(42))
}
