package tokenizer

// Segment is one piece of a segmented input: either an ordinary byte
// run destined for BPE merging, or a special token matched verbatim.
type Segment struct {
	Special    bool
	Text       string
	Rank       Rank // valid only when Special
	Start, End int  // byte offsets into the original text
}

// segmentText implements the interleaving procedure of the
// segmenter: repeatedly find the next allowed special literal, run
// the ordinary pattern over everything before it, emit the special,
// and continue from just past it. A special literal that is not in
// allowed is invisible to this scan and falls through to the ordinary
// pattern like any other text.
func segmentText(text string, pattern *Pattern, trie *specialTrie, allowed map[string]struct{}) ([]Segment, error) {
	var segs []Segment
	cursor := 0
	for cursor < len(text) {
		mStart, mEnd, rank, found := trie.findNext(text, cursor, allowed)
		ordinaryEnd := len(text)
		if found {
			ordinaryEnd = mStart
		}

		if ordinaryEnd > cursor {
			pieces, err := pattern.Segments(text[cursor:ordinaryEnd])
			if err != nil {
				return nil, err
			}
			off := cursor
			for _, piece := range pieces {
				segs = append(segs, Segment{Text: piece, Start: off, End: off + len(piece)})
				off += len(piece)
			}
		}

		if !found {
			break
		}
		segs = append(segs, Segment{Special: true, Text: text[mStart:mEnd], Rank: rank, Start: mStart, End: mEnd})
		cursor = mEnd
	}
	return segs, nil
}
