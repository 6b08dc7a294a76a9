// Package driver wires tokenvec, arena, dawg, evaluator, statutils,
// persist, tokenize, and progress together behind the cmd/cdawg flags.
// It is a separate internal package from main so its pipeline can be
// exercised by tests without invoking Cobra.
package driver

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/arnav-k/cdawg/cdawgerr"
	"github.com/arnav-k/cdawg/dawg"
	"github.com/arnav-k/cdawg/evaluator"
	"github.com/arnav-k/cdawg/persist"
	"github.com/arnav-k/cdawg/progress"
	"github.com/arnav-k/cdawg/statutils"
	"github.com/arnav-k/cdawg/tokenize"
	"github.com/arnav-k/cdawg/tokenvec"
)

// Config mirrors the cmd/cdawg flag set one-to-one.
type Config struct {
	TrainPath      string
	TestPath       string
	Tokenizer      string
	TokensPerByte  float64
	NodesRatio     float64
	EdgesRatio     float64
	BufSize        int
	TrainVecPath   string
	SavePath       string
	NEval          int
	TruncateTest   int
	MaxLength      int
	MaxStateLength int64
}

// Run executes one build (and, if TestPath is set, evaluate) pass.
// Recoverable failures are returned wrapping a cdawgerr sentinel (an
// unreadable path gives cdawgerr.ErrIO, a malformed vocabulary file
// cdawgerr.ErrDecode, a token id too wide for uint16
// cdawgerr.ErrConfiguration); construction-time invariant violations panic, per
// cdawgerr's policy, and are never recovered here.
func Run(cfg Config) (err error) {
	defer func() {
		if err != nil && cfg.SavePath != "" {
			os.RemoveAll(cfg.SavePath)
		}
	}()

	ids, tkz, nodeCap, edgeCap, err := buildTokenizerInput(cfg)
	if err != nil {
		return err
	}

	tok := tokenvec.New[uint16](len(ids))
	g, err := dawg.New(tok, dawg.MaxStateLength(cfg.MaxStateLength), dawg.InitialCapacity(nodeCap, edgeCap))
	if err != nil {
		return err
	}

	bar := progress.New("absorbed tokens", len(ids), cfg.NEval)
	for _, id := range ids {
		tok.Push(id)
		if err := g.Extend(); err != nil {
			return err
		}
		bar.Update(1)
	}
	bar.Close()

	if err := tok.Save(cfg.TrainVecPath); err != nil {
		return err
	}

	if cfg.SavePath != "" {
		if err := persist.Save(cfg.SavePath, g); err != nil {
			return err
		}
	}

	if cfg.TestPath != "" {
		if err := runEval(cfg, g, tkz); err != nil {
			return err
		}
	}

	return nil
}

// buildTokenizerInput reads the training corpus, tokenizes it, and
// returns its token ids plus the tokenizer instance that produced them
// (reused by runEval so the test corpus is mapped through the same
// vocabulary the automaton was built against), along with the pre-sized
// node/edge arena capacities implied by tokens-per-byte / nodes-ratio /
// edges-ratio.
func buildTokenizerInput(cfg Config) ([]uint16, tokenize.Tokenizer, int, int, error) {
	raw, err := readFileBuffered(cfg.TrainPath, cfg.BufSize)
	if err != nil {
		return nil, nil, 0, 0, cdawgerr.Wrap("driver.Run: reading train-path", cdawgerr.ErrIO)
	}
	text := string(raw)

	tkz, err := resolveTokenizer(cfg.Tokenizer)
	if err != nil {
		return nil, nil, 0, 0, err
	}
	if err := tkz.Build(text); err != nil {
		return nil, nil, 0, 0, cdawgerr.Wrap("driver.Run: tokenizer.Build", cdawgerr.ErrConfiguration)
	}

	if tkz.VocabSize() > 1<<16 {
		return nil, nil, 0, 0, cdawgerr.Wrap("driver.Run: vocabulary exceeds uint16 token width", cdawgerr.ErrConfiguration)
	}

	raw32 := tkz.Tokenize(text)

	estimated := int(cfg.TokensPerByte * float64(len(raw)))
	if estimated < len(raw32) {
		estimated = len(raw32)
	}
	nodeCap := int(cfg.NodesRatio * float64(estimated))
	edgeCap := int(cfg.EdgesRatio * float64(estimated))
	if nodeCap < 16 {
		nodeCap = 16
	}
	if edgeCap < 16 {
		edgeCap = 16
	}

	ids := make([]uint16, len(raw32))
	for i, id := range raw32 {
		if id > math.MaxUint16 {
			return nil, nil, 0, 0, cdawgerr.Wrap("driver.Run: token id too wide for uint16", cdawgerr.ErrConfiguration)
		}
		ids[i] = uint16(id)
	}

	return ids, tkz, nodeCap, edgeCap, nil
}

// readFileBuffered streams path through a bufio.Reader sized bufSize,
// matching the original driver's buf_size knob rather than reading the
// whole file in one os-level call.
func readFileBuffered(path string, bufSize int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if bufSize <= 0 {
		bufSize = 64 * 1024
	}

	r := bufio.NewReaderSize(f, bufSize)

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func resolveTokenizer(name string) (tokenize.Tokenizer, error) {
	switch name {
	case "whitespace":
		return tokenize.NewWhitespace(), nil
	case "null":
		return tokenize.NewNull(), nil
	default:
		tkz, err := tokenize.LoadPretrained(name)
		if err != nil {
			return nil, err
		}

		return tkz, nil
	}
}

func runEval(cfg Config, g *dawg.Cdawg[uint16], tkz tokenize.Tokenizer) error {
	raw, err := readFileBuffered(cfg.TestPath, cfg.BufSize)
	if err != nil {
		return cdawgerr.Wrap("driver.Run: reading test-path", cdawgerr.ErrIO)
	}

	testIDs := tkz.Tokenize(string(raw))
	if cfg.TruncateTest > 0 && len(testIDs) > cfg.TruncateTest {
		testIDs = testIDs[:cfg.TruncateTest]
	}

	tok := g.Tokens()
	tokenAt := func(pos int) uint32 { return uint32(tok.At(pos)) }

	matches := evaluator.Run(g, tokenAt, tok.Len, cfg.MaxLength, testIDs)

	var sum int
	for _, m := range matches {
		sum += m
	}
	mean := 0.0
	if len(matches) > 0 {
		mean = float64(sum) / float64(len(matches))
	}

	entropy := statutils.Entropy(g, g.GetSource())

	fmt.Printf("evaluated %d test tokens: mean match length=%.3f source entropy=%.3f bits\n", len(testIDs), mean, entropy)

	return nil
}
