package store

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"

	"github.com/hmoreau/netvalue"
	"github.com/hmoreau/netvalue/date"
)

// LoadPrices returns the cached closes of each symbol restricted to r, keyed
// by YYYY-MM-DD. Every requested symbol is present in the result, mapping to
// an empty map when it has no cached rows.
func (s *Store) LoadPrices(symbols []string, r date.Range) (map[string]map[string]decimal.Decimal, error) {
	out := make(map[string]map[string]decimal.Decimal, len(symbols))
	for _, sym := range symbols {
		out[sym] = make(map[string]decimal.Decimal)
	}
	if len(symbols) == 0 || r.Empty() {
		return out, nil
	}

	var rows []Price
	err := s.db.
		Where("symbol IN ? AND date >= ? AND date <= ?", symbols, r.From.String(), r.To.String()).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load prices: %w", err)
	}
	for _, row := range rows {
		out[row.Symbol][row.Date] = row.Close
	}
	return out, nil
}

// UpsertPrices writes closes, overwriting rows that already exist for the
// same (symbol, date). Last writer wins.
func (s *Store) UpsertPrices(prices []netvalue.CachedPrice) error {
	if len(prices) == 0 {
		return nil
	}
	rows := make([]Price, 0, len(prices))
	for _, p := range prices {
		rows = append(rows, Price{
			Symbol:    p.Symbol,
			Date:      p.Date,
			Close:     p.Close,
			PriceType: p.PriceType,
			UpdatedAt: p.UpdatedAt,
		})
	}
	if err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error; err != nil {
		return fmt.Errorf("upsert prices: %w", err)
	}
	return nil
}
