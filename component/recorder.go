package component

// DefaultHistorySize holds the longest supported command, the 30-frame held
// check and the leniency slack.
const DefaultHistorySize = 64

// DefaultLeniency is the number of unrelated samples tolerated between two
// consecutive command fragments.
const DefaultLeniency = 3

// Recorder is a bounded history of input samples, one per simulation tick.
// The oldest sample is evicted first.
type Recorder struct {
	buf      []InputItem
	head     int
	count    int
	leniency int
}

// NewRecorder creates a recorder holding size samples.
func NewRecorder(size, leniency int) *Recorder {
	if size <= 0 {
		size = DefaultHistorySize
	}
	if leniency < 0 {
		leniency = 0
	}
	return &Recorder{buf: make([]InputItem, size), leniency: leniency}
}

// Append records a sample and reports whether it differs from the previous
// one. Identical samples are still recorded so held inputs can be measured.
func (r *Recorder) Append(item InputItem) bool {
	if r == nil || len(r.buf) == 0 {
		return false
	}
	changed := r.count == 0 || r.Newest(0) != item
	r.buf[r.head] = item
	r.head = (r.head + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
	return changed
}

// Len returns the number of recorded samples.
func (r *Recorder) Len() int {
	if r == nil {
		return 0
	}
	return r.count
}

// Cap returns the ring capacity.
func (r *Recorder) Cap() int {
	if r == nil {
		return 0
	}
	return len(r.buf)
}

// Leniency returns the configured command slack.
func (r *Recorder) Leniency() int {
	if r == nil {
		return 0
	}
	return r.leniency
}

// Newest returns the sample k ticks ago; Newest(0) is the latest.
func (r *Recorder) Newest(k int) InputItem {
	if r == nil || k < 0 || k >= r.count {
		return 0
	}
	idx := (r.head - 1 - k + 2*len(r.buf)) % len(r.buf)
	return r.buf[idx]
}

// History returns the samples oldest first.
func (r *Recorder) History() []InputItem {
	if r == nil || r.count == 0 {
		return nil
	}
	out := make([]InputItem, r.count)
	for i := 0; i < r.count; i++ {
		out[r.count-1-i] = r.Newest(i)
	}
	return out
}

// Reset clears the history.
func (r *Recorder) Reset() {
	if r == nil {
		return
	}
	r.head = 0
	r.count = 0
}
