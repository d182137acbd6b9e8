package counting

import (
	"context"
	"sort"

	"stocktake/feature/catalog"
	"stocktake/feature/counting/models"
)

// ComputeVariance builds the variance report for a session: one row per
// item in the union of the session's scan lines and the configured catalog
// scope, ordered by item code. Identical inputs produce identical output.
// Works on open sessions (live preview) as well as closed ones.
func (s *Service) ComputeVariance(ctx context.Context, sessionID string) (*models.VarianceReport, error) {
	if _, err := s.store.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}

	lines, err := s.store.ListScanLinesByCode(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	counted := make(map[string]models.ScanLine, len(lines))
	for _, line := range lines {
		counted[line.ItemCode] = line
	}

	scope, err := s.resolver.ListScope(ctx)
	if err != nil {
		return nil, err
	}
	scopeByCode := make(map[string]catalog.Entry, len(scope))
	for _, entry := range scope {
		scopeByCode[entry.ItemCode] = entry
	}

	rows := make([]models.VarianceRow, 0, len(lines))
	seen := make(map[string]bool, len(lines))

	// Under the "all" scope every catalog item gets a row, scanned or not.
	// Under "counted" only scanned items do; the catalog still supplies
	// their system quantities below.
	if s.cfg.VarianceScope == ScopeAll {
		for _, entry := range scope {
			row := models.VarianceRow{
				ItemCode:       entry.ItemCode,
				Description:    entry.Description,
				Mask:           entry.Mask,
				SystemQuantity: entry.SystemQuantity,
			}
			if line, ok := counted[entry.ItemCode]; ok {
				row.CountedQuantity = line.Quantity
			}
			row.Difference = row.CountedQuantity - row.SystemQuantity
			rows = append(rows, row)
			seen[entry.ItemCode] = true
		}
	}

	// Scanned items not emitted yet: everything under the counted scope,
	// plus items the catalog no longer lists (system quantity zero).
	for _, line := range lines {
		if seen[line.ItemCode] {
			continue
		}
		row := models.VarianceRow{
			ItemCode:        line.ItemCode,
			Description:     line.Description,
			Mask:            line.Mask,
			CountedQuantity: line.Quantity,
		}
		if entry, ok := scopeByCode[line.ItemCode]; ok {
			row.Description = entry.Description
			row.Mask = entry.Mask
			row.SystemQuantity = entry.SystemQuantity
		}
		row.Difference = row.CountedQuantity - row.SystemQuantity
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].ItemCode < rows[j].ItemCode
	})

	return &models.VarianceReport{
		Rows:    rows,
		Summary: models.Summarize(rows),
	}, nil
}
