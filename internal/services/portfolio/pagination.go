package portfolio

import (
	"sort"

	"github.com/bobmcallan/fundtrack/internal/models"
)

// TransactionPageSize is the fixed page length for transaction listings.
const TransactionPageSize = 15

// SortOrder is the direction of the transaction listing.
type SortOrder string

const (
	OrderAscending  SortOrder = "asc"
	OrderDescending SortOrder = "desc"
)

// sortedTransactions returns the cache ordered by transaction date, falling
// back to transaction ID so equal dates page deterministically.
func (s *Service) sortedTransactions(order SortOrder) []*models.Transaction {
	txns := s.Transactions()
	sort.SliceStable(txns, func(i, j int) bool {
		a, b := txns[i], txns[j]
		if order == OrderDescending {
			a, b = b, a
		}
		if a.TransactionDate != b.TransactionDate {
			return a.TransactionDate < b.TransactionDate
		}
		return a.TransactionID < b.TransactionID
	})
	return txns
}

// TransactionPageCount returns ceil(N / TransactionPageSize) for the cached
// list, 0 when empty.
func (s *Service) TransactionPageCount() int {
	n := len(s.Transactions())
	return (n + TransactionPageSize - 1) / TransactionPageSize
}

// TransactionPage returns page (1-based) of the sorted cached transactions.
// Out-of-range pages return an empty slice.
func (s *Service) TransactionPage(page int, order SortOrder) []*models.Transaction {
	if page < 1 {
		return nil
	}
	txns := s.sortedTransactions(order)

	start := (page - 1) * TransactionPageSize
	if start >= len(txns) {
		return nil
	}
	end := start + TransactionPageSize
	if end > len(txns) {
		end = len(txns)
	}
	return txns[start:end]
}
