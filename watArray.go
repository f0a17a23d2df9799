package watarray

import (
	"github.com/AlexWan0/go-watarray/internal/bitarray"
)

// WatArray is the core of the library.
//
// Level i holds the i-th most significant bit of every value, where values
// are stably grouped by their top i bits. A node of the tree is therefore an
// interval [st, en) of a level, computed from rank queries alone.
//
// A WatArray is immutable after Init or Load; its queries may run
// concurrently.
type WatArray struct {
	layers      []*bitarray.BitArray
	occs        *bitarray.BitArray
	alphabetNum uint64
	blen        uint64 // =len(layers)
	num         uint64
}

// New returns a WatArray built from vals.
func New(vals []uint64) (*WatArray, error) {
	wa := &WatArray{}
	if err := wa.Init(vals); err != nil {
		return nil, err
	}
	return wa, nil
}

// Init builds the index from vals, discarding the current content.
// Every value must be smaller than NotFound.
func (wa *WatArray) Init(vals []uint64) error {
	wa.Clear()
	for _, val := range vals {
		if val == NotFound {
			return ErrInvalidSymbol
		}
	}
	wa.alphabetNum = getAlphabetNum(vals)
	wa.blen = getBinaryLen(wa.alphabetNum)
	wa.num = uint64(len(vals))
	wa.setLayers(vals)
	wa.setOccs(vals)
	return nil
}

// Clear resets wa to the empty array.
func (wa *WatArray) Clear() {
	wa.layers = nil
	wa.occs = emptyBitArray()
	wa.alphabetNum = 0
	wa.blen = 0
	wa.num = 0
}

// AlphabetNum returns (max. of T[0...Length()) + 1), or 0 for an empty T
func (wa *WatArray) AlphabetNum() uint64 {
	return wa.alphabetNum
}

// Length returns the number of values in T
func (wa *WatArray) Length() uint64 {
	return wa.num
}

// Lookup returns T[pos]
func (wa *WatArray) Lookup(pos uint64) (uint64, error) {
	if pos >= wa.num {
		return NotFound, ErrOutOfRange
	}
	val, _ := wa.lookupAndRank(pos)
	return val, nil
}

// LookupAndRank returns T[pos] and Rank(T[pos], pos)
// Faster than Lookup and Rank
func (wa *WatArray) LookupAndRank(pos uint64) (uint64, uint64, error) {
	if pos >= wa.num {
		return NotFound, NotFound, ErrOutOfRange
	}
	val, rank := wa.lookupAndRank(pos)
	return val, rank, nil
}

func (wa *WatArray) lookupAndRank(pos uint64) (uint64, uint64) {
	val := uint64(0)
	st, en := uint64(0), wa.num
	for _, ba := range wa.layers {
		stZero := ba.Rank(false, st)
		boundary := st + ba.Rank(false, en) - stZero
		val <<= 1
		if ba.Lookup(st + pos) {
			pos = ba.Rank(true, st+pos) - (st - stZero)
			st = boundary
			val |= 1
		} else {
			pos = ba.Rank(false, st+pos) - stZero
			en = boundary
		}
	}
	return val, pos
}

// Rank returns the number of c in T[0...pos)
func (wa *WatArray) Rank(c, pos uint64) (uint64, error) {
	if c >= wa.alphabetNum {
		return NotFound, ErrInvalidSymbol
	}
	if pos > wa.num {
		return NotFound, ErrOutOfRange
	}
	st, en := uint64(0), wa.num
	for depth := uint64(0); depth < wa.blen && en > st; depth++ {
		ba := wa.layers[depth]
		stZero := ba.Rank(false, st)
		boundary := st + ba.Rank(false, en) - stZero
		if !getMSB(c, depth, wa.blen) {
			pos = st + ba.Rank(false, pos) - stZero
			en = boundary
		} else {
			pos = boundary + ba.Rank(true, pos) - (st - stZero)
			st = boundary
		}
	}
	return pos - st, nil
}

// Select returns the position of the rank-th c in T (rank is 1-origin).
func (wa *WatArray) Select(c, rank uint64) (uint64, error) {
	if c >= wa.alphabetNum {
		return NotFound, ErrInvalidSymbol
	}
	if rank == 0 {
		return NotFound, ErrOutOfRange
	}
	if rank > wa.freq(c) {
		return NotFound, ErrRankExceedsFrequency
	}
	return wa.selectHelper(c, rank), nil
}

// selectHelper climbs from the leaf of c to the root. At each level the
// start of the node holding c is the number of values smaller than c with
// the lower bits cleared, which occs answers directly.
func (wa *WatArray) selectHelper(c, rank uint64) uint64 {
	for depth := uint64(0); depth < wa.blen; depth++ {
		lowerC := c &^ (uint64(1)<<(depth+1) - 1)
		st := wa.occs.Select(true, lowerC+1) - lowerC
		ba := wa.layers[wa.blen-depth-1]
		bit := getLSB(c, depth)
		rank = ba.Select(bit, ba.Rank(bit, st)+rank) - st + 1
	}
	return rank - 1
}

// Freq returns the number of c in T
func (wa *WatArray) Freq(c uint64) (uint64, error) {
	if c >= wa.alphabetNum {
		return NotFound, ErrInvalidSymbol
	}
	return wa.freq(c), nil
}

func (wa *WatArray) freq(c uint64) uint64 {
	return wa.occs.Select(true, c+2) - wa.occs.Select(true, c+1) - 1
}

// RankLessThan returns the number of c' (< c) in T[0...pos)
func (wa *WatArray) RankLessThan(c, pos uint64) (uint64, error) {
	if c > wa.alphabetNum {
		return NotFound, ErrInvalidSymbol
	}
	if pos > wa.num {
		return NotFound, ErrOutOfRange
	}
	return wa.rankLessThan(c, pos), nil
}

func (wa *WatArray) rankLessThan(c, pos uint64) uint64 {
	if c>>wa.blen != 0 {
		// c is larger than every value
		return pos
	}
	rank := uint64(0)
	st, en := uint64(0), wa.num
	for depth := uint64(0); depth < wa.blen && en > st; depth++ {
		ba := wa.layers[depth]
		stZero := ba.Rank(false, st)
		boundary := st + ba.Rank(false, en) - stZero
		if !getMSB(c, depth, wa.blen) {
			pos = st + ba.Rank(false, pos) - stZero
			en = boundary
		} else {
			rank += ba.Rank(false, pos) - stZero
			pos = boundary + ba.Rank(true, pos) - (st - stZero)
			st = boundary
		}
	}
	return rank
}

// RankMoreThan returns the number of c' (> c) in T[0...pos)
func (wa *WatArray) RankMoreThan(c, pos uint64) (uint64, error) {
	if c >= wa.alphabetNum {
		return NotFound, ErrInvalidSymbol
	}
	if pos > wa.num {
		return NotFound, ErrOutOfRange
	}
	return pos - wa.rankLessThan(c+1, pos), nil
}

// RankRange returns the number of c (minC <= c < maxC) in T[beginPos...endPos).
// An empty value range (maxC <= minC) counts 0.
func (wa *WatArray) RankRange(minC, maxC, beginPos, endPos uint64) (uint64, error) {
	if endPos > wa.num || beginPos > endPos {
		return NotFound, ErrOutOfRange
	}
	if maxC > wa.alphabetNum {
		return NotFound, ErrInvalidSymbol
	}
	if maxC <= minC {
		return 0, nil
	}
	return wa.rankLessThan(maxC, endPos) -
		wa.rankLessThan(minC, endPos) -
		wa.rankLessThan(maxC, beginPos) +
		wa.rankLessThan(minC, beginPos), nil
}

func (wa *WatArray) setLayers(vals []uint64) {
	if wa.blen == 0 {
		return
	}
	begPoses := wa.getBegPoses(vals)
	wa.layers = make([]*bitarray.BitArray, wa.blen)
	for depth := range wa.layers {
		wa.layers[depth] = bitarray.New(wa.num)
	}
	for _, val := range vals {
		for depth := uint64(0); depth < wa.blen; depth++ {
			prefix := prefixCode(val, depth, wa.blen)
			wa.layers[depth].SetBit(getMSB(val, depth, wa.blen), begPoses[depth][prefix])
			begPoses[depth][prefix]++
		}
	}
	for _, ba := range wa.layers {
		ba.Build()
	}
}

// getBegPoses returns, for every level and every prefix of that length,
// the position where the first value with that prefix is written.
func (wa *WatArray) getBegPoses(vals []uint64) [][]uint64 {
	begPoses := make([][]uint64, wa.blen)
	for depth := uint64(0); depth < wa.blen; depth++ {
		begPoses[depth] = make([]uint64, prefixCode(wa.alphabetNum-1, depth, wa.blen)+1)
	}
	for _, val := range vals {
		for depth := uint64(0); depth < wa.blen; depth++ {
			begPoses[depth][prefixCode(val, depth, wa.blen)]++
		}
	}
	for _, level := range begPoses {
		sum := uint64(0)
		for i, num := range level {
			level[i] = sum
			sum += num
		}
	}
	return begPoses
}

// setOccs writes the frequency of each value c in unary:
// a one at the start of c's run followed by Freq(c) zeros.
func (wa *WatArray) setOccs(vals []uint64) {
	counts := make([]uint64, wa.alphabetNum)
	for _, val := range vals {
		counts[val]++
	}
	wa.occs = bitarray.New(wa.num + wa.alphabetNum + 1)
	sum := uint64(0)
	for _, count := range counts {
		wa.occs.SetBit(true, sum)
		sum += count + 1
	}
	wa.occs.SetBit(true, sum)
	wa.occs.Build()
}

func emptyBitArray() *bitarray.BitArray {
	ba := bitarray.New(0)
	ba.Build()
	return ba
}

func getAlphabetNum(vals []uint64) uint64 {
	alphabetNum := uint64(0)
	for _, val := range vals {
		if val >= alphabetNum {
			alphabetNum = val + 1
		}
	}
	return alphabetNum
}

// getBinaryLen returns the number of bits to represent alphabetNum-1.
func getBinaryLen(alphabetNum uint64) uint64 {
	if alphabetNum <= 1 {
		return 0
	}
	val := alphabetNum - 1
	blen := uint64(0)
	for val > 0 {
		val >>= 1
		blen++
	}
	return blen
}

func prefixCode(x, depth, blen uint64) uint64 {
	return x >> (blen - depth)
}

func getMSB(x uint64, pos uint64, blen uint64) bool {
	return ((x >> (blen - pos - 1)) & 1) == 1
}

func getLSB(val, depth uint64) bool {
	return (val & (1 << depth)) != 0
}
