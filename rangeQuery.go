package watarray

type strategy int

const (
	maxQuery strategy = iota
	minQuery
	kthQuery
)

// RangeMaxQuery returns the position and the value of the largest value in
// T[beginPos...endPos). Among equal values the smallest position is reported.
func (wa *WatArray) RangeMaxQuery(beginPos, endPos uint64) (pos, val uint64, err error) {
	return wa.rangeQuery(beginPos, endPos, 0, maxQuery)
}

// RangeMinQuery returns the position and the value of the smallest value in
// T[beginPos...endPos). Among equal values the smallest position is reported.
func (wa *WatArray) RangeMinQuery(beginPos, endPos uint64) (pos, val uint64, err error) {
	return wa.rangeQuery(beginPos, endPos, 0, minQuery)
}

// RangeTopKQuery returns the position and the value of the (k+1)-th smallest
// value in T[beginPos...endPos); k must be smaller than endPos-beginPos.
// Among equal values the smallest position is reported.
func (wa *WatArray) RangeTopKQuery(beginPos, endPos, k uint64) (pos, val uint64, err error) {
	if endPos > beginPos && k >= endPos-beginPos {
		return NotFound, NotFound, ErrOutOfRange
	}
	return wa.rangeQuery(beginPos, endPos, k, kthQuery)
}

// Quantile returns (k+1)th smallest value in T[ranze.Bpos, ranze.Epos)
func (wa *WatArray) Quantile(ranze Range, k uint64) (uint64, error) {
	_, val, err := wa.RangeTopKQuery(ranze.Bpos, ranze.Epos, k)
	return val, err
}

func (wa *WatArray) rangeQuery(beginPos, endPos, k uint64, s strategy) (uint64, uint64, error) {
	if endPos > wa.num || beginPos >= endPos {
		return NotFound, NotFound, ErrOutOfRange
	}
	val := uint64(0)
	st, en := uint64(0), wa.num
	for _, ba := range wa.layers {
		stZero := ba.Rank(false, st)
		stOne := st - stZero
		begZero := ba.Rank(false, beginPos)
		endZero := ba.Rank(false, endPos)
		begOne := beginPos - begZero
		endOne := endPos - endZero
		boundary := st + ba.Rank(false, en) - stZero

		if chooseLeftChild(endZero-begZero, endOne-begOne, k, s) {
			en = boundary
			beginPos = st + begZero - stZero
			endPos = st + endZero - stZero
			val <<= 1
		} else {
			st = boundary
			beginPos = boundary + begOne - stOne
			endPos = boundary + endOne - stOne
			val = val<<1 | 1
			k -= endZero - begZero
		}
	}
	// the first value of the collapsed range is the leftmost one in T
	rank := beginPos - st
	return wa.selectHelper(val, rank+1), val, nil
}

func chooseLeftChild(zeroNum, oneNum, k uint64, s strategy) bool {
	switch s {
	case maxQuery:
		return oneNum == 0
	case minQuery:
		return zeroNum > 0
	case kthQuery:
		return zeroNum > k
	default:
		return true
	}
}

// ListRange lists the distinct values in T[beginPos...endPos) from the
// smallest, each with its frequency in the range, up to num results.
func (wa *WatArray) ListRange(beginPos, endPos, num uint64) ([]ListResult, error) {
	if endPos > wa.num || beginPos > endPos {
		return nil, ErrOutOfRange
	}
	res := make([]ListResult, 0)
	if beginPos == endPos || num == 0 {
		return res, nil
	}
	return wa.listRangeHelper(0, wa.num, beginPos, endPos, num, 0, 0, res), nil
}

func (wa *WatArray) listRangeHelper(st, en, beginPos, endPos, num, depth, c uint64, res []ListResult) []ListResult {
	if uint64(len(res)) >= num {
		return res
	}
	if depth == wa.blen {
		return append(res, ListResult{C: c, Freq: endPos - beginPos})
	}
	ba := wa.layers[depth]
	stZero := ba.Rank(false, st)
	stOne := st - stZero
	begZero := ba.Rank(false, beginPos)
	endZero := ba.Rank(false, endPos)
	begOne := beginPos - begZero
	endOne := endPos - endZero
	boundary := st + ba.Rank(false, en) - stZero

	if endZero > begZero {
		res = wa.listRangeHelper(st, boundary,
			st+begZero-stZero, st+endZero-stZero, num, depth+1, c<<1, res)
	}
	if endOne > begOne {
		res = wa.listRangeHelper(boundary, en,
			boundary+begOne-stOne, boundary+endOne-stOne, num, depth+1, c<<1|1, res)
	}
	return res
}

// nodeRange is a query range inside the tree node [st, en).
type nodeRange struct {
	st, en     uint64
	bpos, epos uint64
}

// Intersect returns values that occur in at least k ranges, from the smallest.
func (wa *WatArray) Intersect(ranges []Range, k int) ([]uint64, error) {
	if k < 1 {
		return nil, ErrOutOfRange
	}
	nodes := make([]nodeRange, 0, len(ranges))
	for _, ranze := range ranges {
		if ranze.Epos > wa.num || ranze.Bpos > ranze.Epos {
			return nil, ErrOutOfRange
		}
		if ranze.Epos > ranze.Bpos {
			nodes = append(nodes, nodeRange{0, wa.num, ranze.Bpos, ranze.Epos})
		}
	}
	ret := make([]uint64, 0)
	if len(nodes) < k {
		return ret, nil
	}
	return wa.intersectHelper(nodes, k, 0, 0, ret), nil
}

func (wa *WatArray) intersectHelper(nodes []nodeRange, k int, depth uint64, prefix uint64, ret []uint64) []uint64 {
	if depth == wa.blen {
		return append(ret, prefix)
	}
	ba := wa.layers[depth]
	zeroNodes := make([]nodeRange, 0)
	oneNodes := make([]nodeRange, 0)
	for _, nr := range nodes {
		stZero := ba.Rank(false, nr.st)
		stOne := nr.st - stZero
		boundary := nr.st + ba.Rank(false, nr.en) - stZero
		begZero := ba.Rank(false, nr.bpos)
		endZero := ba.Rank(false, nr.epos)
		begOne := nr.bpos - begZero
		endOne := nr.epos - endZero
		if endZero > begZero {
			zeroNodes = append(zeroNodes, nodeRange{
				nr.st, boundary, nr.st + begZero - stZero, nr.st + endZero - stZero})
		}
		if endOne > begOne {
			oneNodes = append(oneNodes, nodeRange{
				boundary, nr.en, boundary + begOne - stOne, boundary + endOne - stOne})
		}
	}
	if len(zeroNodes) >= k {
		ret = wa.intersectHelper(zeroNodes, k, depth+1, prefix<<1, ret)
	}
	if len(oneNodes) >= k {
		ret = wa.intersectHelper(oneNodes, k, depth+1, prefix<<1|1, ret)
	}
	return ret
}
