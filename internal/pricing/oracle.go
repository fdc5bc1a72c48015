// Package pricing provides the price-lookup abstraction used by the
// aggregation engine. An Oracle is a pure in-memory lookup over one
// snapshot; it never mutates and never blocks on network.
package pricing

// Oracle answers current-price lookups for one aggregation pass.
type Oracle interface {
	// Quote returns the current price in paise for an instrument.
	// ok is false when no quote is available; callers fall back to the
	// instrument's average cost in that case.
	Quote(instrument string) (price int64, ok bool)
}

// Table is an Oracle backed by a fixed instrument -> price map.
// It is the snapshot form handed to the pure aggregation functions, and
// the deterministic oracle used by tests.
type Table map[string]int64

// Quote implements Oracle.
func (t Table) Quote(instrument string) (int64, bool) {
	p, ok := t[instrument]
	return p, ok
}
