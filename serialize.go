package watarray

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/AlexWan0/go-watarray/internal/bitarray"
	"github.com/ugorji/go/codec"
)

// Save writes wa to w: AlphabetNum and Length as 8-byte little-endian
// integers, then every level from the most significant one, then occs.
func (wa *WatArray) Save(w io.Writer) error {
	var hdr [16]byte
	binary.LittleEndian.PutUint64(hdr[0:], wa.alphabetNum)
	binary.LittleEndian.PutUint64(hdr[8:], wa.num)
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("watarray: save header: %w", err)
	}
	for depth, ba := range wa.layers {
		if err := ba.Save(w); err != nil {
			return fmt.Errorf("watarray: save level %d: %w", depth, err)
		}
	}
	occs := wa.occs
	if occs == nil {
		occs = emptyBitArray()
	}
	if err := occs.Save(w); err != nil {
		return fmt.Errorf("watarray: save occs: %w", err)
	}
	return nil
}

// Load replaces wa with the array written by Save.
// On error wa is left empty.
func (wa *WatArray) Load(r io.Reader) (err error) {
	wa.Clear()
	defer func() {
		if err != nil {
			wa.Clear()
		}
	}()

	var hdr [16]byte
	if _, err = io.ReadFull(r, hdr[:]); err != nil {
		return fmt.Errorf("watarray: load header: %w", err)
	}
	alphabetNum := binary.LittleEndian.Uint64(hdr[0:])
	num := binary.LittleEndian.Uint64(hdr[8:])
	if alphabetNum == 0 && num != 0 {
		return fmt.Errorf("%w: %d values without alphabet", ErrCorrupt, num)
	}
	// occs holds num+alphabetNum+1 bits
	if num == math.MaxUint64 || alphabetNum > math.MaxUint64-num-1 {
		return fmt.Errorf("%w: alphabetNum %d with %d values", ErrCorrupt, alphabetNum, num)
	}
	occsLen := num + alphabetNum + 1
	blen := getBinaryLen(alphabetNum)

	layers := make([]*bitarray.BitArray, 0, blen)
	for depth := uint64(0); depth < blen; depth++ {
		ba := bitarray.New(0)
		if err = ba.Load(r); err != nil {
			return fmt.Errorf("watarray: load level %d: %w", depth, err)
		}
		ba.Build()
		if ba.Len() != num {
			return fmt.Errorf("%w: level %d has %d bits, want %d", ErrCorrupt, depth, ba.Len(), num)
		}
		layers = append(layers, ba)
	}
	occs := bitarray.New(0)
	if err = occs.Load(r); err != nil {
		return fmt.Errorf("watarray: load occs: %w", err)
	}
	occs.Build()
	// only the zero WatArray saves an empty occs
	empty := alphabetNum == 0 && num == 0 && occs.Len() == 0
	if !empty && occs.Len() != occsLen {
		return fmt.Errorf("%w: occs has %d bits, want %d", ErrCorrupt, occs.Len(), occsLen)
	}
	if !empty && occs.OneNum() != alphabetNum+1 {
		return fmt.Errorf("%w: occs has %d runs, want %d", ErrCorrupt, occs.OneNum(), alphabetNum+1)
	}

	wa.layers = layers
	wa.occs = occs
	wa.alphabetNum = alphabetNum
	wa.blen = blen
	wa.num = num
	return nil
}

// MarshalBinary encodes WatArray into the binary form written by Save.
func (wa *WatArray) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := wa.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes WatArray from a binary form generated by MarshalBinary
func (wa *WatArray) UnmarshalBinary(in []byte) error {
	r := bytes.NewReader(in)
	if err := wa.Load(r); err != nil {
		return err
	}
	if r.Len() != 0 {
		wa.Clear()
		return fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, r.Len())
	}
	return nil
}

// CodecEncodeSelf implements codec.Selfer so that a WatArray can be
// embedded in documents encoded by github.com/ugorji/go/codec.
func (wa *WatArray) CodecEncodeSelf(enc *codec.Encoder) {
	out, err := wa.MarshalBinary()
	if err != nil {
		panic(err)
	}
	enc.MustEncode(out)
}

// CodecDecodeSelf implements codec.Selfer
func (wa *WatArray) CodecDecodeSelf(dec *codec.Decoder) {
	var in []byte
	dec.MustDecode(&in)
	if err := wa.UnmarshalBinary(in); err != nil {
		panic(err)
	}
}
