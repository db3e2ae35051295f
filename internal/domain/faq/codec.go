package faq

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

const bundleVersion byte = 1

var bundleMagic = []byte("FAQX")

type indexBundle struct {
	Fingerprint string         `msgpack:"fp"`
	Terms       []string       `msgpack:"terms"`
	IDF         []float64      `msgpack:"idf"`
	Vectors     []bundleVector `msgpack:"vectors"`
	Entries     []bundleEntry  `msgpack:"entries"`
}

type bundleVector struct {
	Cols []int     `msgpack:"c"`
	Vals []float64 `msgpack:"v"`
}

type bundleEntry struct {
	Question string `msgpack:"q"`
	Answer   string `msgpack:"a"`
}

// EncodeIndex serializes the vocabulary, idf weights, document vectors and corpus
// into a compressed MessagePack bundle.
func EncodeIndex(idx *Index) ([]byte, error) {
	bundle := indexBundle{
		Fingerprint: idx.fingerprint,
		Terms:       idx.terms,
		IDF:         idx.idf,
		Vectors:     make([]bundleVector, len(idx.vectors)),
		Entries:     make([]bundleEntry, len(idx.entries)),
	}
	for i, v := range idx.vectors {
		bundle.Vectors[i] = bundleVector{Cols: v.cols, Vals: v.vals}
	}
	for i, e := range idx.entries {
		bundle.Entries[i] = bundleEntry{Question: e.Question, Answer: e.Answer}
	}

	raw, err := msgpack.Marshal(&bundle)
	if err != nil {
		return nil, fmt.Errorf("marshal index bundle: %w", err)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("init zstd encoder: %w", err)
	}
	defer enc.Close()

	header := make([]byte, 0, len(bundleMagic)+1)
	header = append(header, bundleMagic...)
	header = append(header, bundleVersion)
	return enc.EncodeAll(raw, header), nil
}

// DecodeIndex restores an Index written by EncodeIndex. Any structural problem is
// reported as ErrCacheCorrupt.
func DecodeIndex(payload []byte) (*Index, error) {
	if len(payload) < len(bundleMagic)+1 || !bytes.Equal(payload[:len(bundleMagic)], bundleMagic) {
		return nil, fmt.Errorf("%w: missing header", ErrCacheCorrupt)
	}
	if v := payload[len(bundleMagic)]; v != bundleVersion {
		return nil, fmt.Errorf("%w: unsupported bundle version %d", ErrCacheCorrupt, v)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("init zstd decoder: %w", err)
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(payload[len(bundleMagic)+1:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheCorrupt, err)
	}

	var bundle indexBundle
	if err := msgpack.Unmarshal(raw, &bundle); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheCorrupt, err)
	}
	return bundle.index()
}

func (b indexBundle) index() (*Index, error) {
	if len(b.Terms) != len(b.IDF) {
		return nil, fmt.Errorf("%w: %d terms but %d idf weights", ErrCacheCorrupt, len(b.Terms), len(b.IDF))
	}
	if len(b.Vectors) != len(b.Entries) || len(b.Entries) == 0 {
		return nil, fmt.Errorf("%w: %d vectors for %d entries", ErrCacheCorrupt, len(b.Vectors), len(b.Entries))
	}

	idx := &Index{
		vocabulary:  make(map[string]int, len(b.Terms)),
		terms:       b.Terms,
		idf:         b.IDF,
		vectors:     make([]sparseVector, len(b.Vectors)),
		entries:     make([]Entry, len(b.Entries)),
		fingerprint: b.Fingerprint,
	}
	for col, term := range b.Terms {
		if _, dup := idx.vocabulary[term]; dup {
			return nil, fmt.Errorf("%w: duplicate term %q", ErrCacheCorrupt, term)
		}
		idx.vocabulary[term] = col
	}
	for i, v := range b.Vectors {
		if len(v.Cols) != len(v.Vals) {
			return nil, fmt.Errorf("%w: vector %d has mismatched lengths", ErrCacheCorrupt, i)
		}
		for j, col := range v.Cols {
			if col < 0 || col >= len(b.Terms) || (j > 0 && col <= v.Cols[j-1]) {
				return nil, fmt.Errorf("%w: vector %d has invalid column %d", ErrCacheCorrupt, i, col)
			}
		}
		idx.vectors[i] = sparseVector{cols: v.Cols, vals: v.Vals}
	}
	for i, e := range b.Entries {
		idx.entries[i] = Entry{Question: e.Question, Answer: e.Answer}
	}
	if Fingerprint(idx.entries) != idx.fingerprint {
		return nil, fmt.Errorf("%w: fingerprint does not match stored corpus", ErrCacheCorrupt)
	}
	return idx, nil
}
