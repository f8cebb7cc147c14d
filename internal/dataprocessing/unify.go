package dataprocessing

import (
	"log/slog"

	"salama/pkg/contracts/domain"
)

// Unifier merges all cleaned tables sharing a dataset kind into one table
// per kind via union-of-columns concatenation. Nothing is dropped: a table
// lacking a column present elsewhere in its kind is padded with nulls, at the
// cost of sparse data when sources disagree on schema.
type Unifier struct {
	logger *slog.Logger
}

// NewUnifier creates a unifier.
func NewUnifier(logger *slog.Logger) *Unifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Unifier{logger: logger}
}

// Unify groups the tables by kind and merges each group. Row order is
// preserved within each source; the interleaving between sources follows the
// input order but is not part of the contract.
func (u *Unifier) Unify(tables []*Table) map[domain.DatasetKind]*Table {
	groups := make(map[domain.DatasetKind][]*Table)
	var order []domain.DatasetKind
	for _, t := range tables {
		if t == nil || t.IsEmpty() {
			continue
		}
		if _, seen := groups[t.Kind]; !seen {
			order = append(order, t.Kind)
		}
		groups[t.Kind] = append(groups[t.Kind], t)
	}

	unified := make(map[domain.DatasetKind]*Table, len(groups))
	for _, kind := range order {
		merged := u.merge(groups[kind])
		merged.Kind = kind
		unified[kind] = merged
		u.logger.Info("unified dataset",
			slog.String("kind", kind.String()),
			slog.Int("sources", len(groups[kind])),
			slog.Int("rows", merged.NumRows()),
			slog.Int("columns", merged.NumCols()))
	}
	return unified
}

// merge concatenates tables over the union of their columns, in first-seen
// column order.
func (u *Unifier) merge(tables []*Table) *Table {
	var columns []string
	seen := make(map[string]bool)
	for _, t := range tables {
		for _, c := range t.Columns {
			if !seen[c] {
				seen[c] = true
				columns = append(columns, c)
			}
		}
	}

	out := NewTable(columns)
	for _, t := range tables {
		aligned := t.Reindex(columns)
		out.Rows = append(out.Rows, aligned.Rows...)
	}
	return out
}
