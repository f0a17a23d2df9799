// Package bitarray provides a fixed-length bit vector with rank/select
// support, backed by a rank/select dictionary (rsdic).
//
// Bits are set at arbitrary positions during construction with SetBit and
// frozen by Build. After Build the array is read-only and may be shared
// between goroutines.
package bitarray

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/bits"

	"github.com/hillbig/rsdic"
)

// maxBlobSize bounds the length prefix accepted by Load.
const maxBlobSize = 1 << 40

// ErrCorrupt is returned by Load when the stream does not hold a BitArray.
var ErrCorrupt = errors.New("bitarray: corrupt data")

// BitArray is a bit vector B[0...Len()).
type BitArray struct {
	plane []uint64 // staging words, nil once built
	size  uint64
	dic   *rsdic.RSDic
}

// New returns a BitArray of size zero bits ready for SetBit.
func New(size uint64) *BitArray {
	ba := &BitArray{}
	ba.Init(size)
	return ba
}

// Init discards the current content and allocates size zero bits.
func (ba *BitArray) Init(size uint64) {
	ba.plane = make([]uint64, (size+63)/64)
	ba.size = size
	ba.dic = nil
}

// Clear resets ba to the zero-length array.
func (ba *BitArray) Clear() {
	ba.plane = nil
	ba.size = 0
	ba.dic = rsdic.New()
}

// SetBit sets B[pos] = bit. It has no effect after Build.
func (ba *BitArray) SetBit(bit bool, pos uint64) {
	if ba.plane == nil || pos >= ba.size {
		return
	}
	if bit {
		ba.plane[pos/64] |= 1 << (pos % 64)
	} else {
		ba.plane[pos/64] &^= 1 << (pos % 64)
	}
}

// Build freezes the bits for rank/select queries.
func (ba *BitArray) Build() {
	if ba.plane == nil {
		if ba.dic == nil {
			ba.dic = rsdic.New()
		}
		return
	}
	dic := rsdic.New()
	for pos := uint64(0); pos < ba.size; pos++ {
		dic.PushBack(ba.plane[pos/64]&(1<<(pos%64)) != 0)
	}
	ba.dic = dic
	ba.plane = nil
}

// Len returns the number of bits.
func (ba *BitArray) Len() uint64 {
	return ba.size
}

// OneNum returns the number of ones.
func (ba *BitArray) OneNum() uint64 {
	if ba.dic == nil {
		return ba.stagedOnes(ba.size)
	}
	return ba.dic.OneNum()
}

// ZeroNum returns the number of zeros.
func (ba *BitArray) ZeroNum() uint64 {
	return ba.size - ba.OneNum()
}

// Lookup returns B[pos]. pos must be smaller than Len().
func (ba *BitArray) Lookup(pos uint64) bool {
	if ba.dic == nil {
		return ba.plane[pos/64]&(1<<(pos%64)) != 0
	}
	return ba.dic.Bit(pos)
}

// Rank returns the number of bit's in B[0...pos).
// pos larger than Len() is treated as Len().
func (ba *BitArray) Rank(bit bool, pos uint64) uint64 {
	if pos > ba.size {
		pos = ba.size
	}
	var ones uint64
	if ba.dic == nil {
		ones = ba.stagedOnes(pos)
	} else {
		ones = ba.dic.Rank(pos, true)
	}
	if bit {
		return ones
	}
	return pos - ones
}

// Select returns the position of the rank-th bit in B (rank is 1-origin).
// It returns Len() if B holds fewer than rank bit's, and 0 for rank 0.
func (ba *BitArray) Select(bit bool, rank uint64) uint64 {
	if rank == 0 {
		return 0
	}
	if ba.dic == nil {
		return ba.stagedSelect(bit, rank)
	}
	return ba.dic.Select(rank-1, bit)
}

func (ba *BitArray) stagedSelect(bit bool, rank uint64) uint64 {
	for pos := uint64(0); pos < ba.size; pos++ {
		if ba.Lookup(pos) == bit {
			rank--
			if rank == 0 {
				return pos
			}
		}
	}
	return ba.size
}

func (ba *BitArray) stagedOnes(pos uint64) uint64 {
	ones := uint64(0)
	for i := uint64(0); i < pos/64; i++ {
		ones += uint64(bits.OnesCount64(ba.plane[i]))
	}
	if rem := pos % 64; rem != 0 {
		ones += uint64(bits.OnesCount64(ba.plane[pos/64] & (1<<rem - 1)))
	}
	return ones
}

// Save writes ba to w as an 8-byte little-endian length followed by the
// encoded dictionary.
func (ba *BitArray) Save(w io.Writer) error {
	ba.Build()
	blob, err := ba.dic.MarshalBinary()
	if err != nil {
		return fmt.Errorf("bitarray: encode: %w", err)
	}
	var hdr [8]byte
	binary.LittleEndian.PutUint64(hdr[:], uint64(len(blob)))
	if _, err = w.Write(hdr[:]); err != nil {
		return fmt.Errorf("bitarray: write: %w", err)
	}
	if _, err = w.Write(blob); err != nil {
		return fmt.Errorf("bitarray: write: %w", err)
	}
	return nil
}

// Load replaces ba with the content written by Save.
func (ba *BitArray) Load(r io.Reader) error {
	ba.Clear()
	var hdr [8]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return fmt.Errorf("bitarray: read: %w", err)
	}
	n := binary.LittleEndian.Uint64(hdr[:])
	if n > maxBlobSize {
		return fmt.Errorf("%w: length prefix %d", ErrCorrupt, n)
	}
	blob := make([]byte, n)
	if _, err := io.ReadFull(r, blob); err != nil {
		return fmt.Errorf("bitarray: read: %w", err)
	}
	dic := rsdic.New()
	if err := dic.UnmarshalBinary(blob); err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	ba.dic = dic
	ba.size = dic.Num()
	return nil
}
