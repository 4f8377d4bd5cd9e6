package ttable

// Counter enumerates all 256^k byte vectors of length k in lexicographic
// order, starting at 0^k and ending at 255^k. It is the "byte counter" leaf
// component the rest of the engine is built on: shard/driver.go drives one
// Counter per shard over the free bytes that shard does not fix, and feeds
// each vector to Walk.
//
// A Counter is not safe for concurrent use; each shard owns a private one.
type Counter struct {
	current []byte
	done    bool
}

// NewCounter returns a Counter over byte vectors of length k. k must be >= 1;
// behavior for k == 0 is undefined, since the engine never calls it that way.
func NewCounter(k int) *Counter {
	return &Counter{current: make([]byte, k)}
}

// Next returns the next vector in the sequence and true, or nil and false
// once all 256^k vectors (including the terminal 255^k) have been emitted.
// The returned slice is owned by the caller; Counter does not alias it on
// subsequent calls.
func (c *Counter) Next() ([]byte, bool) {
	if c.done {
		return nil, false
	}

	out := make([]byte, len(c.current))
	copy(out, c.current)

	for i := len(c.current) - 1; i >= 0; i-- {
		if c.current[i] == 255 {
			continue
		}
		c.current[i]++
		for j := i + 1; j < len(c.current); j++ {
			c.current[j] = 0
		}
		return out, true
	}

	// Every byte was 255: `out` above is the terminal 255^k vector. Emit it
	// once, then stop.
	c.done = true
	return out, true
}
