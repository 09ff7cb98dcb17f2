package common

// Ring keeps the most recent samples of a stream in a fixed-size circular
// buffer. Pushing into a full ring overwrites the oldest sample.
type Ring struct {
	buffer   []float64
	writePos int
	count    int
}

// NewRing creates a ring holding up to size samples.
func NewRing(size int) *Ring {
	return &Ring{buffer: make([]float64, max(size, 1))}
}

// Push appends v, evicting the oldest sample when full.
func (r *Ring) Push(v float64) {
	r.buffer[r.writePos] = v
	r.writePos = (r.writePos + 1) % len(r.buffer)
	if r.count < len(r.buffer) {
		r.count++
	}
}

// Back returns the sample pushed n pushes ago (n=1 is the latest), or 0 when
// fewer than n samples are held.
func (r *Ring) Back(n int) float64 {
	if n < 1 || n > r.count {
		return 0
	}
	pos := (r.writePos - n + len(r.buffer)) % len(r.buffer)
	return r.buffer[pos]
}

// Len returns the number of samples held.
func (r *Ring) Len() int {
	return r.count
}

// Cap returns the ring size.
func (r *Ring) Cap() int {
	return len(r.buffer)
}

// Reset empties the ring.
func (r *Ring) Reset() {
	r.writePos = 0
	r.count = 0
}
