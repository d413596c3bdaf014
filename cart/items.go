package cart

import "vestire/models"

// Cart lines are keyed by (product, size).

func findItem(items []models.CartItem, productID, size string) int {
	for i, it := range items {
		if it.ProductID == productID && it.Size == size {
			return i
		}
	}
	return -1
}

// mergeItem folds a new line into the list, incrementing the quantity of an
// existing (product, size) line or appending a fresh one.
func mergeItem(items []models.CartItem, item models.CartItem) []models.CartItem {
	if idx := findItem(items, item.ProductID, item.Size); idx >= 0 {
		items[idx].Quantity += item.Quantity
		return items
	}
	return append(items, item)
}

// setQuantity overwrites a line's quantity, dropping the line when the new
// quantity is zero or below. Returns false when the line does not exist.
func setQuantity(items []models.CartItem, productID, size string, quantity int) ([]models.CartItem, bool) {
	idx := findItem(items, productID, size)
	if idx < 0 {
		return items, false
	}
	if quantity <= 0 {
		return append(items[:idx], items[idx+1:]...), true
	}
	items[idx].Quantity = quantity
	return items, true
}

func removeItem(items []models.CartItem, productID, size string) []models.CartItem {
	idx := findItem(items, productID, size)
	if idx < 0 {
		return items
	}
	return append(items[:idx], items[idx+1:]...)
}

// decreaseItem lowers a line by one, removing it at quantity 1. A missing
// line is a no-op.
func decreaseItem(items []models.CartItem, productID, size string) []models.CartItem {
	idx := findItem(items, productID, size)
	if idx < 0 {
		return items
	}
	if items[idx].Quantity > 1 {
		items[idx].Quantity--
		return items
	}
	return append(items[:idx], items[idx+1:]...)
}
