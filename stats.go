package hdrview

// ComputeStats scans the buffer for its finite minimum and maximum,
// restricted to the first three channels so an alpha plane never widens the
// display range. Returns nil when the buffer holds no finite sample.
func (b *SampleBuffer) ComputeStats() *Stats {
	colorCh := b.Channels
	if colorCh > 3 {
		colorCh = 3
	}
	var (
		st    Stats
		found bool
	)
	n := b.Pixels()
	for p := 0; p < n; p++ {
		base := p * b.Channels
		for c := 0; c < colorCh; c++ {
			v := float64(b.Samples[base+c])
			if !isFinite(v) {
				continue
			}
			if !found {
				st.Min, st.Max = v, v
				found = true
				continue
			}
			if v < st.Min {
				st.Min = v
			}
			if v > st.Max {
				st.Max = v
			}
		}
	}
	if !found {
		return nil
	}
	return &st
}

// StatsCache memoizes ComputeStats per buffer. The key is buffer identity:
// reloading an image produces a new buffer and therefore a recomputation,
// so a stale result can never describe a different image.
type StatsCache struct {
	buf   *SampleBuffer
	stats *Stats
	done  bool
}

// For returns the cached stats for b, computing them on first use.
func (c *StatsCache) For(b *SampleBuffer) *Stats {
	if !c.done || c.buf != b {
		c.buf = b
		c.stats = b.ComputeStats()
		c.done = true
	}
	return c.stats
}

// Invalidate drops the cached entry.
func (c *StatsCache) Invalidate() {
	c.buf = nil
	c.stats = nil
	c.done = false
}
