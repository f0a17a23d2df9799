// Package docsearch finds the documents containing a byte string.
//
// The documents are concatenated into one text and indexed by a suffix
// array. A WatArray over the "previous suffix of the same document" pointers
// counts the distinct documents of any suffix array interval in O(log n).
package docsearch

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	watarray "github.com/AlexWan0/go-watarray"
	"github.com/ugorji/go/codec"
)

var (
	// ErrNoDocuments is returned by Build when there is nothing to index.
	ErrNoDocuments = errors.New("docsearch: no documents")
	// ErrInvalidQuery is returned by Search for an empty query or one
	// holding the 0 byte that separates documents.
	ErrInvalidQuery = errors.New("docsearch: invalid query")
)

// Index is a suffix array over a set of documents.
type Index struct {
	Names   []string
	Offsets []uint64 // Offsets[d] is the start of document d in Text
	Text    []byte   // documents, each followed by a 0 byte
	SA      []uint64
	// Prev holds, for every SA position i, 1 + the last SA position before i
	// in the same document, or 0 if there is none.
	Prev *watarray.WatArray
}

// Result describes the matches of one query.
type Result struct {
	Beg, End uint64 // SA[Beg...End) are the matching suffixes
	Docs     []int  // distinct matching documents, ascending
	DocNum   uint64 // number of distinct documents counted by the WatArray
}

// Hits returns the number of matching positions.
func (r Result) Hits() uint64 {
	return r.End - r.Beg
}

// Build indexes docs; names[i] names docs[i].
func Build(names []string, docs [][]byte) (*Index, error) {
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}
	if len(names) != len(docs) {
		return nil, fmt.Errorf("docsearch: %d names for %d documents", len(names), len(docs))
	}
	ix := &Index{
		Names:   append([]string(nil), names...),
		Offsets: make([]uint64, 0, len(docs)),
	}
	for _, doc := range docs {
		ix.Offsets = append(ix.Offsets, uint64(len(ix.Text)))
		ix.Text = append(ix.Text, doc...)
		ix.Text = append(ix.Text, 0)
	}
	ix.SA = suffixArray(ix.Text)

	prev, err := watarray.New(ix.prevArray())
	if err != nil {
		return nil, err
	}
	ix.Prev = prev
	return ix, nil
}

// BuildFromFileList indexes the files named one per line in listPath.
func BuildFromFileList(listPath string) (*Index, error) {
	f, err := os.Open(listPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var names []string
	var docs [][]byte
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		name := strings.TrimSpace(sc.Text())
		if name == "" {
			continue
		}
		doc, err := os.ReadFile(name)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		docs = append(docs, doc)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("docsearch: read %s: %w", listPath, err)
	}
	return Build(names, docs)
}

// suffixArray sorts the suffixes by comparison, which is quadratic in the
// worst case (long repeats).
func suffixArray(text []byte) []uint64 {
	sa := make([]uint64, len(text))
	for i := range sa {
		sa[i] = uint64(i)
	}
	sort.Slice(sa, func(i, j int) bool {
		return bytes.Compare(text[sa[i]:], text[sa[j]:]) < 0
	})
	return sa
}

func (ix *Index) prevArray() []uint64 {
	last := make([]uint64, len(ix.Offsets))
	prev := make([]uint64, len(ix.SA))
	for i, pos := range ix.SA {
		d := ix.DocID(pos)
		prev[i] = last[d]
		last[d] = uint64(i) + 1
	}
	return prev
}

// DocID returns the document holding text position pos.
func (ix *Index) DocID(pos uint64) int {
	return sort.Search(len(ix.Offsets), func(i int) bool {
		return ix.Offsets[i] > pos
	}) - 1
}

func (ix *Index) comparePrefix(i int, query []byte) int {
	suffix := ix.Text[ix.SA[i]:]
	if len(suffix) > len(query) {
		suffix = suffix[:len(query)]
	}
	return bytes.Compare(suffix, query)
}

// Search returns the positions and documents where query occurs.
// Matches never span two documents: a query must be non-empty and must not
// contain the 0 byte.
func (ix *Index) Search(query []byte) (Result, error) {
	if len(query) == 0 || bytes.IndexByte(query, 0) >= 0 {
		return Result{Docs: make([]int, 0)}, ErrInvalidQuery
	}
	n := len(ix.SA)
	beg := sort.Search(n, func(i int) bool { return ix.comparePrefix(i, query) >= 0 })
	end := sort.Search(n, func(i int) bool { return ix.comparePrefix(i, query) > 0 })
	res := Result{Beg: uint64(beg), End: uint64(end), Docs: make([]int, 0)}
	if beg == end {
		return res, nil
	}

	seen := make(map[int]struct{})
	for _, pos := range ix.SA[beg:end] {
		seen[ix.DocID(pos)] = struct{}{}
	}
	for d := range seen {
		res.Docs = append(res.Docs, d)
	}
	sort.Ints(res.Docs)

	docNum, err := ix.CountDocs(res.Beg, res.End)
	if err != nil {
		return res, err
	}
	res.DocNum = docNum
	return res, nil
}

// CountDocs returns the number of distinct documents among SA[beg...end).
// A position is the first of its document in the interval iff its previous
// position lies before beg, i.e. Prev <= beg.
func (ix *Index) CountDocs(beg, end uint64) (uint64, error) {
	maxC := beg + 1
	if alphabetNum := ix.Prev.AlphabetNum(); maxC > alphabetNum {
		maxC = alphabetNum
	}
	return ix.Prev.RankRange(0, maxC, beg, end)
}

// Save writes ix to w as msgpack.
func (ix *Index) Save(w io.Writer) error {
	var mh codec.MsgpackHandle
	if err := codec.NewEncoder(w, &mh).Encode(ix); err != nil {
		return fmt.Errorf("docsearch: save: %w", err)
	}
	return nil
}

// Load reads an Index written by Save.
func Load(r io.Reader) (*Index, error) {
	var mh codec.MsgpackHandle
	ix := &Index{}
	if err := codec.NewDecoder(r, &mh).Decode(ix); err != nil {
		return nil, fmt.Errorf("docsearch: load: %w", err)
	}
	if ix.Prev == nil || ix.Prev.Length() != uint64(len(ix.SA)) || len(ix.SA) != len(ix.Text) {
		return nil, errors.New("docsearch: load: inconsistent index")
	}
	return ix, nil
}
