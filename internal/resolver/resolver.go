// Package resolver selects the implementation of an operation for an
// argument list.
//
// Resolution runs in two phases over a candidate set gathered by the
// caller:
//
//  1. Viability: drop candidates whose guard rejects the arguments, whose
//     arity does not fit, or with a position that does not bind.
//  2. Ranking: a viable candidate wins when it is at least as good as every
//     other viable candidate at every position and strictly better than
//     each of them somewhere. Without such a candidate the lookup is
//     ambiguous.
//
// # Usage
//
//	out := resolver.Resolve(cands, args, logger)
//	if out.OK() {
//	    res, err := out.Best.Call(values)
//	}
package resolver

import (
	"log/slog"

	"github.com/tincup-go/tincup/internal/types"
)

// Outcome is the result of one resolution.
type Outcome struct {
	// Best is the unique winner, nil on failure.
	Best *Candidate
	// Ranks holds Best's per-position ranks.
	Ranks []types.Rank
	// Tied lists the undominated candidates of an ambiguous lookup.
	Tied []*Candidate
	// Viable counts candidates that passed the viability phase.
	Viable int
}

// OK reports whether a unique best candidate was found.
func (o Outcome) OK() bool { return o.Best != nil }

// Ambiguous reports whether several candidates tied.
func (o Outcome) Ambiguous() bool { return o.Best == nil && len(o.Tied) > 1 }

// resolver resolves one argument list.
type resolver struct {
	*types.Logger
}

type match struct {
	cand  *Candidate
	ranks []types.Rank
}

// Resolve selects the best candidate for args. If logger is nil, logging
// is disabled.
func Resolve(cands []*Candidate, args []types.Arg, logger *types.Logger) Outcome {
	r := resolver{Logger: logger}
	if r.Logger == nil {
		r.Logger = &types.Logger{}
	}
	return r.resolve(cands, args)
}

func (r resolver) resolve(cands []*Candidate, args []types.Arg) Outcome {
	viable := make([]match, 0, len(cands))
	for _, c := range cands {
		ranks, ok := c.Match(args)
		if r.TraceEnabled() {
			r.Trace("candidate",
				slog.String("signature", c.String()),
				slog.String("source", c.Source.String()),
				slog.Bool("viable", ok))
		}
		if ok {
			viable = append(viable, match{cand: c, ranks: ranks})
		}
	}
	out := Outcome{Viable: len(viable)}

	switch len(viable) {
	case 0:
		r.Log(slog.LevelDebug, "no viable candidate",
			slog.String("args", types.List(args)),
			slog.Int("candidates", len(cands)))
		return out
	case 1:
		out.Best, out.Ranks = viable[0].cand, viable[0].ranks
		return out
	}

	for i, m := range viable {
		wins := true
		for j, other := range viable {
			if i != j && !better(m, other) {
				wins = false
				break
			}
		}
		if wins {
			out.Best, out.Ranks = m.cand, m.ranks
			return out
		}
	}

	// Ambiguous: report the candidates no other candidate beats.
	for i, m := range viable {
		beaten := false
		for j, other := range viable {
			if i != j && better(other, m) {
				beaten = true
				break
			}
		}
		if !beaten {
			out.Tied = append(out.Tied, m.cand)
		}
	}
	r.Log(slog.LevelDebug, "ambiguous lookup",
		slog.String("args", types.List(args)),
		slog.Int("tied", len(out.Tied)))
	return out
}

// better reports whether a beats b.
func better(a, b match) bool {
	strictly := false
	for i := range a.ranks {
		switch {
		case a.ranks[i] > b.ranks[i]:
			return false
		case a.ranks[i] < b.ranks[i]:
			strictly = true
		}
	}
	if strictly {
		return true
	}
	return !a.cand.IsVariadic() && b.cand.IsVariadic()
}
