// Package cdawg builds and queries a Compact Directed Acyclic Word Graph
// (CDAWG) over a token corpus.
//
// A CDAWG is a suffix automaton whose edges carry substring spans into an
// immutable token array instead of single symbols. Feeding it a token
// stream one token at a time, in linear time and space, yields a
// structure that answers longest-suffix-match queries, exposes per-state
// token distributions, and supports entropy-based evaluation against
// held-out text.
//
// Subpackages:
//
//	tokenvec/   — append-only token id vector backing every edge span
//	arena/      — node/edge arenas over a pluggable RAM or mmap backing
//	avl/        — balanced per-node adjacency over arena edge records
//	dawg/       — the online construction algorithm and its state machine
//	evaluator/  — longest-suffix-match walk over held-out token sequences
//	statutils/  — entropy and transition-probability derivations
//	persist/    — arena + metadata save/load
//	tokenize/   — whitespace, identity, and pretrained token adapters
//	progress/   — cadence-gated progress reporting for long builds
//	cdawgerr/   — shared error-kind taxonomy
//	cmd/cdawg/  — command-line driver wiring the above together
//
//	go get github.com/arnav-k/cdawg
package cdawg
