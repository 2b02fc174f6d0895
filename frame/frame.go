// Package frame defines AlignmentFrame, the immutable value object the rest of the
// codec operates on: an ordered list of row identifiers, the equal-length rows they
// name, the alphabet those rows are drawn from, and an open bag of auxiliary metadata.
//
// AlignmentFrame is produced once (by an external FASTA/PHYLIP reader, out of scope
// here) and never mutated in place; every transform in this module (reordering,
// reconstruction from a decoded payload) returns a new value.
package frame

import (
	"sort"

	"github.com/JLSteenwyk/ecomp/errs"
)

// AlignmentFrame is a rectangular multiple sequence alignment: IDs[i] names Rows[i],
// every row has the same length, and Alphabet is the sorted set of bytes appearing in
// any row.
type AlignmentFrame struct {
	IDs      []string
	Rows     []string
	Alphabet []byte
	Meta     map[string]string
}

// New validates ids/rows and derives the alphabet, returning a new AlignmentFrame.
//
// Invariants enforced: identifier count equals row count, every identifier is unique
// and non-empty, all rows share one length, and the returned alphabet covers every
// residue that actually appears in rows.
func New(ids []string, rows []string, meta map[string]string) (AlignmentFrame, error) {
	if len(ids) != len(rows) {
		return AlignmentFrame{}, errs.Input(errs.ErrIDCountMismatch)
	}
	if len(rows) == 0 {
		return AlignmentFrame{}, errs.Input(errs.ErrNoRows)
	}

	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			return AlignmentFrame{}, errs.Input(errs.ErrEmptyID)
		}
		if _, dup := seen[id]; dup {
			return AlignmentFrame{}, errs.Input(errs.ErrDuplicateID)
		}
		seen[id] = struct{}{}
	}

	width := len(rows[0])
	for _, r := range rows {
		if len(r) != width {
			return AlignmentFrame{}, errs.Input(errs.ErrRaggedRows)
		}
	}

	alphabet := deriveAlphabet(rows)

	f := AlignmentFrame{
		IDs:      append([]string(nil), ids...),
		Rows:     append([]string(nil), rows...),
		Alphabet: alphabet,
		Meta:     cloneMeta(meta),
	}

	return f, nil
}

func deriveAlphabet(rows []string) []byte {
	present := make(map[byte]struct{})
	for _, r := range rows {
		for i := 0; i < len(r); i++ {
			present[r[i]] = struct{}{}
		}
	}

	alphabet := make([]byte, 0, len(present))
	for b := range present {
		alphabet = append(alphabet, b)
	}
	sort.Slice(alphabet, func(i, j int) bool { return alphabet[i] < alphabet[j] })

	return alphabet
}

func cloneMeta(meta map[string]string) map[string]string {
	if meta == nil {
		return map[string]string{}
	}
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		out[k] = v
	}

	return out
}

// RowCount returns the number of rows (and identifiers) in the frame.
func (f AlignmentFrame) RowCount() int {
	return len(f.Rows)
}

// ColumnCount returns the shared row length, or 0 for an empty frame.
func (f AlignmentFrame) ColumnCount() int {
	if len(f.Rows) == 0 {
		return 0
	}

	return len(f.Rows[0])
}

// Column returns the byte at the given column across every row, in row order.
func (f AlignmentFrame) Column(idx int) []byte {
	col := make([]byte, len(f.Rows))
	for i, r := range f.Rows {
		col[i] = r[idx]
	}

	return col
}

// GapFraction returns the fraction of characters across the whole frame equal to the
// gap symbol '-'. Used by the order optimizer's gap-heavy rejection rule.
func (f AlignmentFrame) GapFraction() float64 {
	total := 0
	gaps := 0
	for _, r := range f.Rows {
		for i := 0; i < len(r); i++ {
			total++
			if r[i] == '-' {
				gaps++
			}
		}
	}
	if total == 0 {
		return 0
	}

	return float64(gaps) / float64(total)
}

// Permute returns a new AlignmentFrame with IDs and Rows reordered according to order,
// a permutation where order[i] is the original row index now placed at position i.
// Alphabet and Meta are carried over unchanged.
func (f AlignmentFrame) Permute(order []int) AlignmentFrame {
	ids := make([]string, len(order))
	rows := make([]string, len(order))
	for i, src := range order {
		ids[i] = f.IDs[src]
		rows[i] = f.Rows[src]
	}

	return AlignmentFrame{
		IDs:      ids,
		Rows:     rows,
		Alphabet: f.Alphabet,
		Meta:     f.Meta,
	}
}

// ConcatRows concatenates every row's bytes in row order, the input to the SHA-256
// checksum stored in the Metadata Record.
func (f AlignmentFrame) ConcatRows() []byte {
	width := f.ColumnCount()
	out := make([]byte, 0, width*len(f.Rows))
	for _, r := range f.Rows {
		out = append(out, r...)
	}

	return out
}

// FASTA renders the frame as header-less FASTA (">id\nseq\n" repeated), the canonical
// form the gzip fallback compresses.
func (f AlignmentFrame) FASTA() []byte {
	out := make([]byte, 0, f.estimateFASTASize())
	for i, id := range f.IDs {
		out = append(out, '>')
		out = append(out, id...)
		out = append(out, '\n')
		out = append(out, f.Rows[i]...)
		out = append(out, '\n')
	}

	return out
}

func (f AlignmentFrame) estimateFASTASize() int {
	size := 0
	for i, id := range f.IDs {
		size += len(id) + len(f.Rows[i]) + 2
	}

	return size
}

// ParseFASTA parses the exact header-less ">id\nseq\n" form FASTA produces, the
// literal inverse the gzip fallback path needs to restore a frame from the gunzipped
// original. It is not a general-purpose FASTA reader (multi-line sequences, comments,
// and other FASTA dialect features stay an external collaborator's concern); it only
// has to round-trip what FASTA itself wrote.
func ParseFASTA(data []byte, meta map[string]string) (AlignmentFrame, error) {
	text := string(data)
	var ids, rows []string

	for len(text) > 0 {
		if text[0] != '>' {
			return AlignmentFrame{}, errs.Format(errs.ErrFASTAMalformed)
		}
		text = text[1:]

		idEnd := indexByte(text, '\n')
		if idEnd < 0 {
			return AlignmentFrame{}, errs.Format(errs.ErrFASTAMalformed)
		}
		id := text[:idEnd]
		text = text[idEnd+1:]

		seqEnd := indexByte(text, '\n')
		if seqEnd < 0 {
			return AlignmentFrame{}, errs.Format(errs.ErrFASTAMalformed)
		}
		seq := text[:seqEnd]
		text = text[seqEnd+1:]

		ids = append(ids, id)
		rows = append(rows, seq)
	}

	return New(ids, rows, meta)
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}

	return -1
}
