package service

import (
	"github.com/mwerner-fin/divtracker-backend/internal/model"
)

// NormalizedEvent is one accepted activity resolved to its ISO week.
type NormalizedEvent struct {
	Activity model.Activity
	Week     model.WeekKey
}

// NormalizeResult is the typed event set produced from one raw activity
// fetch, together with counters for what was filtered out.
type NormalizeResult struct {
	Events     []NormalizedEvent
	Duplicates int // fills discarded because their order ID repeated in this run
	Ignored    int // fills discarded because their order ID is on the ignore list
	Skipped    int // malformed or non-execution records
}

// NormalizeActivities converts a raw, unordered activity list into the typed
// event set consumed by aggregation.
//
// Fills are kept only when they denote an actual execution ("fill" or
// "partial_fill") with a positive quantity. Each fill's order ID must be
// unique within the run; repeats are discarded, which protects against a
// paginated source returning overlapping pages. Order IDs on the ignore list
// are dropped without error. Dividend and withholding records map 1:1 to
// their (symbol, week); amounts stay as reported.
//
// Records missing a usable symbol or date are skipped silently, never fatal.
// The function has no side effects: it does not touch the ignore list or any
// stored state.
func NormalizeActivities(activities []model.Activity, ignored map[string]bool) NormalizeResult {
	var res NormalizeResult
	seen := make(map[string]bool)

	for _, a := range activities {
		if a.Symbol == "" || a.Date.IsZero() {
			res.Skipped++
			continue
		}

		switch a.Type {
		case model.ActivityFill:
			if a.FillType != "fill" && a.FillType != "partial_fill" {
				res.Skipped++
				continue
			}
			if a.ID == "" {
				res.Skipped++
				continue
			}
			if seen[a.ID] {
				res.Duplicates++
				continue
			}
			seen[a.ID] = true
			if ignored[a.ID] {
				res.Ignored++
				continue
			}
			if a.Qty <= 0 {
				res.Skipped++
				continue
			}

		case model.ActivityDividend, model.ActivityWithholding:
			// Mapped 1:1; no dedup key exists for cash activities.

		default:
			res.Skipped++
			continue
		}

		res.Events = append(res.Events, NormalizedEvent{
			Activity: a,
			Week:     model.WeekOf(a.Date),
		})
	}

	return res
}

// GroupBySymbol splits normalized events per symbol, preserving input order
// within each symbol.
func GroupBySymbol(events []NormalizedEvent) map[string][]NormalizedEvent {
	grouped := make(map[string][]NormalizedEvent)
	for _, e := range events {
		grouped[e.Activity.Symbol] = append(grouped[e.Activity.Symbol], e)
	}
	return grouped
}

// DividendSymbols returns the set of symbols with at least one dividend or
// withholding event. Only these symbols are tracked after a sync.
func DividendSymbols(events []NormalizedEvent) map[string]bool {
	symbols := make(map[string]bool)
	for _, e := range events {
		if e.Activity.IsDividendBearing() {
			symbols[e.Activity.Symbol] = true
		}
	}
	return symbols
}
