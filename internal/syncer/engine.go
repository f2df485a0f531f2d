// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package syncer decides which harvested papers are genuinely new on a
// run and tracks delivered IDs across runs.
package syncer

import (
	"context"
	"sort"
	"time"

	"github.com/cryptodigest/eprint-watch/pkg/types"
)

// Source yields parsed papers for a lower-bound time. *eprint.Harvester
// satisfies it; tests supply fakes.
type Source interface {
	HarvestSince(ctx context.Context, since time.Time, yield func(*types.Paper) bool) error
}

// Engine computes the ordered batch of new papers for a run.
type Engine struct {
	Source Source
}

// SyncSince harvests from the given cutoff and returns the papers that are
// new for this run, oldest first.
//
// The protocol's from parameter is day-granular, so a second filter here
// enforces the precise cutoff: papers without a parseable date or dated
// before since are dropped. IDs already in posted are dropped, as is any
// repeat of an ID within the same harvest (first occurrence wins). The
// posted set is never mutated; callers mark IDs only after successful
// delivery, so a mid-run failure cannot silently mark a paper as posted.
//
// A non-nil error alongside results means the harvest ended early; the
// returned papers are still valid as a best-effort partial batch.
func (e *Engine) SyncSince(ctx context.Context, since time.Time, posted map[string]struct{}) ([]*types.Paper, error) {
	var papers []*types.Paper
	seen := make(map[string]struct{})

	err := e.Source.HarvestSince(ctx, since, func(p *types.Paper) bool {
		if p.PublishedDate.IsZero() || p.PublishedDate.Before(since) {
			return true
		}
		if _, ok := posted[p.ID]; ok {
			return true
		}
		if _, ok := seen[p.ID]; ok {
			return true
		}
		seen[p.ID] = struct{}{}
		papers = append(papers, p)
		return true
	})

	// Chronological oldest-first so the channel reads in publication
	// order. Zero (absent) dates sort before everything else.
	sort.SliceStable(papers, func(i, j int) bool {
		return papers[i].PublishedDate.Before(papers[j].PublishedDate)
	})

	return papers, err
}
