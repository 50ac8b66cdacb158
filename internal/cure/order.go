package cure

import (
	"slices"
)

// ByPrice orders by price ascending. Use with a stable sort so equal prices
// keep insertion order.
func ByPrice(a, b Medicine) int {
	return a.Price().Cmp(b.Price())
}

// ByExpiry orders by expiry date ascending. Use with a stable sort.
func ByExpiry(a, b Medicine) int {
	return a.ExpiryDate().Compare(b.ExpiryDate())
}

// SortStable reorders items in place by cmp, keeping the relative order of
// equal elements.
func SortStable(items []Medicine, cmp func(a, b Medicine) int) {
	slices.SortStableFunc(items, cmp)
}
