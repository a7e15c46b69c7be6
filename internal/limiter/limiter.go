// Package limiter selects a window of records from a list.
package limiter

import "fmt"

// Config holds the record-limiting parameters.
type Config struct {
	Limit  int // Show only this many records (0 = unlimited)
	Offset int // Skip the first N records (0 = no skip)
	Tail   int // Show only the last N records (0 = disabled); mutually exclusive with Limit
}

// Validate checks for conflicting flag combinations.
// Limit and Tail are mutually exclusive, Offset is ignored when Tail is set, and every
// value must be non-negative.
func (c Config) Validate() error {
	if c.Limit < 0 {
		return fmt.Errorf("--limit must be non-negative, got %d", c.Limit)
	}
	if c.Offset < 0 {
		return fmt.Errorf("--offset must be non-negative, got %d", c.Offset)
	}
	if c.Tail < 0 {
		return fmt.Errorf("--tail must be non-negative, got %d", c.Tail)
	}
	if c.Limit > 0 && c.Tail > 0 {
		return fmt.Errorf("--limit and --tail are mutually exclusive")
	}
	return nil
}

// IsActive returns true if any limiting is configured.
func (c Config) IsActive() bool {
	return c.Limit > 0 || c.Offset > 0 || c.Tail > 0
}

// Bounds returns the half-open range of a list of n records that c selects.
func (c Config) Bounds(n int) (start, end int) {
	if c.Tail > 0 {
		start = n - c.Tail
		if start < 0 {
			start = 0
		}
		return start, n
	}

	start = c.Offset
	if start > n {
		start = n
	}
	end = n
	if c.Limit > 0 && start+c.Limit < n {
		end = start + c.Limit
	}
	return start, end
}

// Apply returns the records c selects. The result shares items' backing array.
func Apply[T any](c Config, items []T) []T {
	if !c.IsActive() {
		return items
	}
	start, end := c.Bounds(len(items))
	return items[start:end]
}

// Describe summarizes the window for headers, e.g. "records 3-5 of 10".
func (c Config) Describe(n int) string {
	if !c.IsActive() {
		return fmt.Sprintf("%d records", n)
	}
	start, end := c.Bounds(n)
	if start == end {
		return fmt.Sprintf("no records of %d", n)
	}
	return fmt.Sprintf("records %d-%d of %d", start+1, end, n)
}
