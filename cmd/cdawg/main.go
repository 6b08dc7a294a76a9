// Command cdawg builds a Compact Directed Acyclic Word Graph over a
// training corpus, saves it to disk, and optionally evaluates it
// against a held-out test file.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arnav-k/cdawg/internal/driver"
)

func main() {
	cfg := driver.Config{}

	root := &cobra.Command{
		Use:   "cdawg",
		Short: "Build and evaluate a Compact Directed Acyclic Word Graph over a token corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			return driver.Run(cfg)
		},
	}

	flags := root.Flags()
	flags.StringVar(&cfg.TrainPath, "train-path", "", "corpus file to build the automaton from (required)")
	flags.StringVar(&cfg.TestPath, "test-path", "", "held-out text file to tokenize and evaluate against")
	flags.StringVar(&cfg.Tokenizer, "tokenizer", "whitespace", "tokenizer to use: whitespace | null | path to a pretrained vocabulary JSON file")
	flags.Float64Var(&cfg.TokensPerByte, "tokens-per-byte", 0.25, "expected token count as a fraction of corpus byte size, used to pre-size arenas")
	flags.Float64Var(&cfg.NodesRatio, "nodes-ratio", 2.0, "node arena capacity as a multiple of the estimated token count")
	flags.Float64Var(&cfg.EdgesRatio, "edges-ratio", 3.0, "edge arena capacity as a multiple of the estimated token count")
	flags.IntVar(&cfg.BufSize, "buf-size", 64*1024, "read buffer size in bytes for streaming the training corpus")
	flags.StringVar(&cfg.TrainVecPath, "train-vec-path", "", "where the absorbed token vector is persisted (required)")
	flags.StringVar(&cfg.SavePath, "save-path", "", "directory to save the built automaton to")
	flags.IntVar(&cfg.NEval, "n-eval", 1000, "print a progress line every this many absorbed tokens")
	flags.IntVar(&cfg.TruncateTest, "truncate-test", 0, "cap the number of test tokens evaluated; 0 means unbounded")
	flags.IntVar(&cfg.MaxLength, "max-length", 0, "cap the longest suffix match the evaluator reports; 0 means unbounded")
	flags.Int64Var(&cfg.MaxStateLength, "max-state-length", -1, "cap on node.Length, saved with the automaton but not applied during construction; -1 means unbounded")

	_ = root.MarkFlagRequired("train-path")
	_ = root.MarkFlagRequired("train-vec-path")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "cdawg: %v\n", err)
		os.Exit(1)
	}
}
