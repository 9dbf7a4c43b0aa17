// Package extract turns loosely-structured conference-session content into
// canonical Session candidates. It degrades through a priority chain of
// strategies: a structured nested-document path first, then pattern and
// keyword scanning over rendered page text.
package extract

import (
	"github.com/joelkehle/summit-agenda/internal/session"
)

// Input is one acquired page handed over by the acquisition layer. Document
// holds the decoded structured payload when one was found; Text holds the
// rendered page text for the fallback path. SourceURL seeds session identity.
type Input struct {
	Document  map[string]any
	Text      string
	SourceURL string
}

// Strategy is one extraction approach. Strategies share a common contract so
// the chain never branches on how the input was acquired: each consumes the
// full Input and returns zero or more candidates.
type Strategy func(Input) []session.Session

// Strategies returns the default chain, in priority order.
func Strategies() []Strategy {
	return []Strategy{
		func(in Input) []session.Session {
			if in.Document == nil {
				return nil
			}
			return ExtractStructured(in.Document, in.SourceURL)
		},
		func(in Input) []session.Session {
			if in.Text == "" {
				return nil
			}
			return ExtractUnstructured(in.Text, in.SourceURL)
		},
	}
}

// Extract runs the strategy chain and returns the first non-empty result.
// It is a pure, re-entrant call: no state is shared across invocations.
func Extract(in Input) []session.Session {
	for _, strategy := range Strategies() {
		if candidates := strategy(in); len(candidates) > 0 {
			return candidates
		}
	}
	return nil
}

// Run accumulates candidates across a processing run. It exists so per-run
// state travels explicitly through the pipeline instead of living in package
// globals; a fresh Run makes the engine safely re-runnable in isolation.
type Run struct {
	candidates []session.Session
}

// NewRun returns an empty accumulation context.
func NewRun() *Run {
	return &Run{}
}

// Process extracts one input and folds its candidates into the run.
func (r *Run) Process(in Input) []session.Session {
	candidates := Extract(in)
	r.candidates = append(r.candidates, candidates...)
	return candidates
}

// Candidates returns everything accumulated so far, in processing order.
func (r *Run) Candidates() []session.Session {
	return r.candidates
}
