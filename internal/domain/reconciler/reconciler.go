// Package reconciler attaches inventory identity and metadata to sale
// records.
//
// Matching priority, first hit wins:
//  1. Exact external product id.
//  2. Exact set name + card number (case-insensitive, trimmed).
//  3. Best fuzzy name score strictly above the configured threshold.
//
// On a match, enrichment fields are copied from the inventory record
// only where the sale record is still empty; user-edited fields are
// never overwritten.
//
// Example usage:
//
//	r := reconciler.New(reconciler.DefaultConfig())
//	enriched := r.Reconcile(pendingSale, inventory)
//	if enriched.Matched {
//		// confident inventory match found
//	}
package reconciler

import (
	"strings"

	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/card"
	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/fuzzy"
	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/sale"
)

// Confidence thresholds callers pick from depending on how risky the
// resulting action is.
const (
	// ThresholdAutoMatch gates automatic matching, price allocation
	// eligibility and inventory decrements on confirmation.
	ThresholdAutoMatch = 0.8

	// ThresholdBackfill gates silently backfilling metadata onto a record.
	ThresholdBackfill = 0.9

	// ThresholdReview gates surfacing a candidate for manual review.
	ThresholdReview = 0.7
)

// Config holds reconciler configuration.
type Config struct {
	// Threshold is the minimum fuzzy score (exclusive) to accept a name
	// match. Exact-key matches bypass it.
	Threshold float64
}

// DefaultConfig returns the auto-match configuration.
func DefaultConfig() Config {
	return Config{Threshold: ThresholdAutoMatch}
}

// Reconciler matches sale records against an inventory snapshot.
type Reconciler struct {
	config Config
}

// New creates a reconciler with the given config.
func New(config Config) *Reconciler {
	return &Reconciler{config: config}
}

// Reconcile finds the best inventory match for one sale record and
// returns the enriched copy. When nothing matches, the record comes
// back unchanged with Matched still false.
func (r *Reconciler) Reconcile(s sale.Record, inventory []card.Record) sale.Record {
	idx, score := r.findMatch(s, inventory)
	if idx < 0 {
		return s
	}

	enrich(&s, inventory[idx])
	s.Matched = true
	s.MatchScore = score
	return s
}

// ReconcileAll enriches a batch of sale records, skipping ones already
// matched. One unmatched record never stops the rest of the batch.
func (r *Reconciler) ReconcileAll(sales []sale.Record, inventory []card.Record) []sale.Record {
	out := make([]sale.Record, len(sales))
	copy(out, sales)

	for i := range out {
		if out[i].Matched {
			continue
		}
		out[i] = r.Reconcile(out[i], inventory)
	}
	return out
}

// BestCandidate returns the highest-scoring inventory index for a name,
// or -1 when the inventory is empty. The caller compares the score
// against whichever threshold fits its action.
func (r *Reconciler) BestCandidate(name string, inventory []card.Record) (int, float64) {
	bestIdx := -1
	bestScore := 0.0

	// Strictly-greater keeps the first maximum in input order, which is
	// the deterministic tie-break for equal scores.
	for i := range inventory {
		if score := fuzzy.Similarity(name, inventory[i].Name); score > bestScore {
			bestIdx = i
			bestScore = score
		}
	}
	return bestIdx, bestScore
}

// findMatch applies the matching priority and returns the matched
// inventory index with its confidence, or (-1, 0) for no match.
func (r *Reconciler) findMatch(s sale.Record, inventory []card.Record) (int, float64) {
	if s.TCGProductID != "" {
		for i := range inventory {
			if inventory[i].TCGProductID == s.TCGProductID {
				return i, 1.0
			}
		}
	}

	if s.SetName != "" && s.CardNumber != "" {
		saleSet := canonical(s.SetName)
		saleNumber := canonical(s.CardNumber)
		for i := range inventory {
			if canonical(inventory[i].SetName) == saleSet && canonical(inventory[i].CardNumber) == saleNumber {
				return i, 1.0
			}
		}
	}

	idx, score := r.BestCandidate(s.Name, inventory)
	if idx >= 0 && score > r.config.Threshold {
		return idx, score
	}
	return -1, 0
}

// enrich copies inventory fields onto the sale record without touching
// anything the record already carries.
func enrich(s *sale.Record, inv card.Record) {
	if s.Image == "" {
		s.Image = inv.Image
	}
	if s.TCGProductID == "" {
		s.TCGProductID = inv.TCGProductID
	}
	if s.SetName == "" {
		s.SetName = inv.SetName
	}
	if s.CardNumber == "" {
		s.CardNumber = inv.CardNumber
	}
	if s.Market == 0 {
		s.Market = inv.Market
	}
	if s.Cost == 0 {
		s.Cost = inv.Cost
	}
}

func canonical(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
