package tokenizer

import "sync"

// Core is the BPE encoding engine: a ranked vocabulary, a decode
// store, the special-token table, and the pre-tokenization pattern
// that feeds it. It is immutable after construction and safe for
// concurrent use by multiple goroutines.
type Core struct {
	enc        map[string]Rank // ordinary byte sequence -> rank
	dec        tokenStore
	specialEnc map[string]Rank
	specialDec map[Rank][]byte
	trie       *specialTrie
	pattern    *Pattern

	partsPool sync.Pool
	tokenPool sync.Pool
}

// NewCore builds a Core from loaded vocabulary pairs (as produced by
// ParseVocabulary), a special-token table, and a compiled
// pre-tokenization pattern.
func NewCore(pairs [][2]any, specials map[string]Rank, pattern *Pattern) (*Core, error) {
	enc := make(map[string]Rank, len(pairs))
	for _, p := range pairs {
		b, _ := p[0].([]byte)
		r, _ := p[1].(Rank)
		enc[string(b)] = r
	}
	dec, err := newTokenStore(pairs)
	if err != nil {
		return nil, err
	}
	specialEnc := make(map[string]Rank, len(specials))
	specialDec := make(map[Rank][]byte, len(specials))
	for lit, rank := range specials {
		specialEnc[lit] = rank
		specialDec[rank] = []byte(lit)
	}
	return &Core{
		enc:        enc,
		dec:        dec,
		specialEnc: specialEnc,
		specialDec: specialDec,
		trie:       newSpecialTrie(specialEnc),
		pattern:    pattern,
		partsPool:  sync.Pool{New: func() any { b := make([]part, 0, 64); return &b }},
		tokenPool:  sync.Pool{New: func() any { b := make([]Rank, 0, 32); return &b }},
	}, nil
}

// AllSpecials returns the allow-set containing every special literal
// known to this Core — the set used when applyAllSpecial=true.
func (c *Core) AllSpecials() map[string]struct{} {
	out := make(map[string]struct{}, len(c.specialEnc))
	for lit := range c.specialEnc {
		out[lit] = struct{}{}
	}
	return out
}

// IsSpecialToken reports whether id names a special token.
func (c *Core) IsSpecialToken(id Rank) bool { _, ok := c.specialDec[id]; return ok }

// DecodeBytesInto appends the decoded bytes for tokens into dst.
func (c *Core) DecodeBytesInto(dst *[]byte, tokens []Rank) error {
	buf := *dst
	for _, t := range tokens {
		if c.dec.AppendInto(&buf, t) {
			continue
		}
		if v, ok := c.specialDec[t]; ok {
			buf = append(buf, v...)
			continue
		}
		*dst = buf
		return &InvalidTokenError{ID: t}
	}
	*dst = buf
	return nil
}

// Encode segments text and merges each ordinary run through the BPE
// core, emitting special-token ranks directly wherever the segmenter
// recognizes an allowed literal.
func (c *Core) Encode(text string, allowedSpecial map[string]struct{}) ([]Rank, error) {
	segs, err := segmentText(text, c.pattern, c.trie, allowedSpecial)
	if err != nil {
		return nil, err
	}
	out := make([]Rank, 0, len(segs))
	for _, seg := range segs {
		if seg.Special {
			out = append(out, seg.Rank)
			continue
		}
		toks, release, err := c.bytePairEncode(seg.Text)
		if err != nil {
			return nil, err
		}
		out = append(out, toks...)
		release()
	}
	return out, nil
}

// EncodeWithOffsets behaves like Encode but also returns, for every
// emitted id, the byte range in text whose encoding produced it. Trim
// modes need this to find the byte offset a token budget cuts at;
// ordinary Encode skips the bookkeeping since it doesn't need it.
func (c *Core) EncodeWithOffsets(text string, allowedSpecial map[string]struct{}) ([]Rank, [][2]int, error) {
	segs, err := segmentText(text, c.pattern, c.trie, allowedSpecial)
	if err != nil {
		return nil, nil, err
	}
	var ids []Rank
	var offsets [][2]int
	for _, seg := range segs {
		if seg.Special {
			ids = append(ids, seg.Rank)
			offsets = append(offsets, [2]int{seg.Start, seg.End})
			continue
		}
		toks, localOffsets, err := c.bytePairEncodeOffsets(seg.Text)
		if err != nil {
			return nil, nil, err
		}
		for i, t := range toks {
			ids = append(ids, t)
			offsets = append(offsets, [2]int{seg.Start + localOffsets[i][0], seg.Start + localOffsets[i][1]})
		}
	}
	return ids, offsets, nil
}

// part is one boundary in the byte-pair merge frontier: start is the
// byte offset of a surviving token's first byte, rank is the rank of
// the 2-token window beginning there (maxRank if absent).
type part struct {
	start int
	rank  Rank
}

const maxRank = ^Rank(0)

// bytePairEncode runs the BPE merge (§4.C) on piece, using the pooled
// scratch buffers for the hot path. The returned release func must be
// called once the caller is done with the returned slice.
func (c *Core) bytePairEncode(piece string) ([]Rank, func(), error) {
	noop := func() {}
	if len(piece) == 0 {
		return nil, noop, nil
	}
	if len(piece) == 1 {
		r, ok := c.enc[piece]
		if !ok {
			return nil, noop, &VocabIncompleteError{Byte: piece[0]}
		}
		buf, release := c.acquireTokens(1)
		buf = append(buf[:0], r)
		return buf, release, nil
	}
	if r, ok := c.enc[piece]; ok {
		buf, release := c.acquireTokens(1)
		buf = append(buf[:0], r)
		return buf, release, nil
	}

	parts, releaseParts := c.acquireParts(len(piece) + 1)
	parts = c.mergeParts(piece, parts)

	toks, releaseTokens := c.acquireTokens(len(parts) - 1)
	toks = toks[:0]
	for i := 0; i+1 < len(parts); i++ {
		r, ok := c.enc[piece[parts[i].start:parts[i+1].start]]
		if !ok {
			releaseParts()
			releaseTokens()
			return nil, noop, &VocabIncompleteError{Byte: piece[parts[i].start]}
		}
		toks = append(toks, r)
	}
	release := func() {
		releaseParts()
		releaseTokens()
	}
	return toks, release, nil
}

// bytePairEncodeOffsets is the non-pooled sibling of bytePairEncode
// used by the trim-mode bookkeeping path: it additionally returns,
// for each emitted rank, the local [start,end) byte range within
// piece.
func (c *Core) bytePairEncodeOffsets(piece string) ([]Rank, [][2]int, error) {
	if len(piece) == 0 {
		return nil, nil, nil
	}
	if len(piece) == 1 {
		r, ok := c.enc[piece]
		if !ok {
			return nil, nil, &VocabIncompleteError{Byte: piece[0]}
		}
		return []Rank{r}, [][2]int{{0, 1}}, nil
	}
	if r, ok := c.enc[piece]; ok {
		return []Rank{r}, [][2]int{{0, len(piece)}}, nil
	}

	parts := c.mergeParts(piece, make([]part, 0, len(piece)+1))

	ids := make([]Rank, 0, len(parts)-1)
	offs := make([][2]int, 0, len(parts)-1)
	for i := 0; i+1 < len(parts); i++ {
		r, ok := c.enc[piece[parts[i].start:parts[i+1].start]]
		if !ok {
			return nil, nil, &VocabIncompleteError{Byte: piece[parts[i].start]}
		}
		ids = append(ids, r)
		offs = append(offs, [2]int{parts[i].start, parts[i+1].start})
	}
	return ids, offs, nil
}

// getRank looks up the rank of the pair that would result from
// merging parts[i] with parts[i+1]: the window from parts[i].start to
// parts[i+3].start, i.e. the merged token's successor pair, not the
// merged token itself. Returns maxRank when the window has no rank or
// is out of bounds.
func (c *Core) getRank(piece string, parts []part, i int) Rank {
	if i+3 < len(parts) {
		if r, ok := c.enc[piece[parts[i].start:parts[i+3].start]]; ok {
			return r
		}
	}
	return maxRank
}

// mergeParts runs the ranked byte-pair merge of §4.C: repeatedly
// merge the lowest-rank adjacent pair (leftmost wins ties) until no
// pair has a rank. dst is reused as scratch capacity.
func (c *Core) mergeParts(piece string, dst []part) []part {
	parts := dst[:0]
	for i := 0; i < len(piece)-1; i++ {
		r, ok := c.enc[piece[i:i+2]]
		if !ok {
			r = maxRank
		}
		parts = append(parts, part{start: i, rank: r})
	}
	parts = append(parts, part{start: len(piece) - 1, rank: maxRank})
	parts = append(parts, part{start: len(piece), rank: maxRank})

	for {
		minIdx := -1
		minRank := maxRank
		for i := 0; i < len(parts)-1; i++ {
			if parts[i].rank < minRank {
				minRank = parts[i].rank
				minIdx = i
			}
		}
		if minIdx < 0 {
			break
		}
		if minIdx > 0 {
			parts[minIdx-1].rank = c.getRank(piece, parts, minIdx-1)
		}
		parts[minIdx].rank = c.getRank(piece, parts, minIdx)
		parts = append(parts[:minIdx+1], parts[minIdx+2:]...)
	}
	return parts
}

func (c *Core) acquireParts(capHint int) ([]part, func()) {
	v := c.partsPool.Get().(*[]part)
	p := *v
	if cap(p) < capHint {
		p = make([]part, 0, capHint)
	} else {
		p = p[:0]
	}
	release := func() {
		if cap(p) > 1<<12 {
			return
		}
		*v = p[:0]
		c.partsPool.Put(v)
	}
	return p, release
}

func (c *Core) acquireTokens(capHint int) ([]Rank, func()) {
	v := c.tokenPool.Get().(*[]Rank)
	p := *v
	if cap(p) < capHint {
		p = make([]Rank, 0, capHint)
	} else {
		p = p[:0]
	}
	release := func() {
		if cap(p) > 1<<12 {
			return
		}
		*v = p[:0]
		c.tokenPool.Put(v)
	}
	return p, release
}
