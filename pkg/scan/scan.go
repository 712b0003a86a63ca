// Package scan holds one device read of interleaved channel data.
package scan

// Skipped is the placeholder value the stream library writes into a cell
// when the device skipped a scan. Skipped cells still occupy their slot in
// the block, they are only counted, never compacted away.
const Skipped = -9999.0

// Channel identifies one entry of the configured scan list. Its identity is
// the ordinal position in the list; a counter channel, if enabled, is always
// ordinal 0.
type Channel struct {
	// Name is the symbolic device channel name, e.g. AIN0 or DIO0_EF_READ_A.
	Name string
	// Counter marks the PPS counter channel.
	Counter bool
}

// Block is the raw data of a single stream read: scansPerRead scans of
// numChannels values each, channel-major stride. The value for channel c of
// scan s sits at offset c + s*numChannels.
type Block struct {
	data  []float64
	nchan int
	scans int
}

// NewBlock allocates a block for scansPerRead scans of numChannels values.
// The storage is reused read after read, it is filled in place via Data().
func NewBlock(numChannels, scansPerRead int) *Block {
	return &Block{
		data:  make([]float64, numChannels*scansPerRead),
		nchan: numChannels,
		scans: scansPerRead,
	}
}

// Data returns the backing slice in device layout for the source to fill.
func (b *Block) Data() []float64 {
	return b.data
}

// Channels returns the number of channels per scan.
func (b *Block) Channels() int {
	return b.nchan
}

// Scans returns the number of scans in the block.
func (b *Block) Scans() int {
	return b.scans
}

// Value returns the raw value of channel c at scan s.
func (b *Block) Value(c, s int) float64 {
	return b.data[c+s*b.nchan]
}

// CountSkipped returns the number of cells carrying the skipped-scan
// placeholder value, across all channels of the block.
func (b *Block) CountSkipped() int {
	n := 0
	for _, v := range b.data {
		if v == Skipped {
			n++
		}
	}
	return n
}
