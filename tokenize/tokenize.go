// Package tokenize adapts raw text into the token id streams tokenvec
// and dawg consume. Every implementation speaks uint32 ids; callers
// targeting a narrower tokenvec.Vector[uint16] are responsible for
// checking VocabSize fits before narrowing (internal/driver does this
// before building the automaton).
package tokenize

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"

	"github.com/arnav-k/cdawg/cdawgerr"
)

// Tokenizer turns text into a sequence of token ids. Build primes any
// vocabulary the tokenizer maintains from a representative corpus;
// Tokenize may be called many times afterward, including against text
// never seen by Build.
type Tokenizer interface {
	Build(text string) error
	Tokenize(text string) []uint32
	VocabSize() int
}

// Null is a byte-identity passthrough: each byte of the input is its own
// token, vocabulary fixed at 256.
type Null struct{}

// NewNull returns a Null tokenizer. Its vocabulary never depends on the
// corpus, so Build is a no-op.
func NewNull() *Null { return &Null{} }

func (n *Null) Build(string) error { return nil }

func (n *Null) Tokenize(text string) []uint32 {
	out := make([]uint32, len(text))
	for i := 0; i < len(text); i++ {
		out[i] = uint32(text[i])
	}

	return out
}

func (n *Null) VocabSize() int { return 256 }

// Whitespace assigns token ids to whitespace-delimited words on first
// sight, the Go analogue of a TokenIndex built incrementally over a
// corpus. Build and Tokenize share the same on-the-fly assignment: a
// word never seen before gets the next free id, whether encountered
// during Build or later during Tokenize.
type Whitespace struct {
	ids  map[string]uint32
	next uint32
}

// NewWhitespace returns an empty Whitespace tokenizer.
func NewWhitespace() *Whitespace {
	return &Whitespace{ids: make(map[string]uint32)}
}

func (w *Whitespace) Build(text string) error {
	for _, word := range strings.Fields(text) {
		w.idFor(word)
	}

	return nil
}

func (w *Whitespace) Tokenize(text string) []uint32 {
	fields := strings.Fields(text)
	out := make([]uint32, len(fields))
	for i, word := range fields {
		out[i] = w.idFor(word)
	}

	return out
}

func (w *Whitespace) idFor(word string) uint32 {
	if id, ok := w.ids[word]; ok {
		return id
	}

	id := w.next
	w.ids[word] = id
	w.next++

	return id
}

func (w *Whitespace) VocabSize() int { return len(w.ids) }

// Pretrained wraps a fixed, externally produced vocabulary: a JSON
// object mapping whitespace-delimited tokens to their ids, the simplest
// bridge available since no Hugging-Face/byte-pair-encoding binding
// exists anywhere in the reference corpus this tokenizer is grounded
// on. Words absent from the vocabulary map to the reserved id one past
// the last real id (an implicit <unk> slot).
type Pretrained struct {
	ids    map[string]uint32
	unk    uint32
	loaded bool
}

// LoadPretrained reads a vocabulary file produced offline (token name to
// id, JSON-encoded) and returns a ready-to-use Pretrained tokenizer.
func LoadPretrained(path string) (*Pretrained, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, cdawgerr.Wrap("tokenize.LoadPretrained", cdawgerr.ErrIO)
	}
	defer f.Close()

	var ids map[string]uint32
	if err := json.NewDecoder(bufio.NewReader(f)).Decode(&ids); err != nil {
		return nil, cdawgerr.Wrap("tokenize.LoadPretrained", cdawgerr.ErrDecode)
	}

	var maxID uint32
	for _, id := range ids {
		if id >= maxID {
			maxID = id + 1
		}
	}

	return &Pretrained{ids: ids, unk: maxID, loaded: true}, nil
}

// Build is a no-op: the vocabulary is fixed at load time, not derived
// from a training corpus.
func (p *Pretrained) Build(string) error { return nil }

func (p *Pretrained) Tokenize(text string) []uint32 {
	fields := strings.Fields(text)
	out := make([]uint32, len(fields))
	for i, word := range fields {
		if id, ok := p.ids[word]; ok {
			out[i] = id
		} else {
			out[i] = p.unk
		}
	}

	return out
}

func (p *Pretrained) VocabSize() int {
	if !p.loaded {
		return 0
	}

	return int(p.unk) + 1
}
