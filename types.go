// Package watarray provides a wavelet tree array (WatArray)
// supporting many range-query problems over an integer array,
// including rank/select, range min/max query, k-th smallest value,
// and listing the distinct values in a range.
//
// For an array T[0...n), 0 <= T[i] < k, a WatArray uses n*ceil(log2 k) bits
// and answers every query in O(log k) rank/select operations.
package watarray

// Range represents a range [Bpos, Epos)
// only valid for Bpos <= Epos
type Range struct {
	Bpos uint64
	Epos uint64
}

// ListResult is a value and its frequency, reported by ListRange.
type ListResult struct {
	C    uint64
	Freq uint64
}
