package quotes

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// CacheKey derives the canonical cache hash for a quote input. Extras are
// sorted by id (then quantity) and dimensions pass through decimal.String,
// which drops trailing zeros, so permuted extras lists and "40" vs "40.0"
// hash identically. OrderItemCount participates because it changes the
// applicable discount tier.
func CacheKey(input Input) string {
	extras := make([]string, 0, len(input.Extras))
	for _, extra := range input.Extras {
		extras = append(extras, fmt.Sprintf("%s:%d", extra.ID, extra.Quantity))
	}
	sort.Strings(extras)

	itemCount := input.OrderItemCount
	if itemCount <= 0 {
		itemCount = input.Quantity
	}

	canonical := strings.Join([]string{
		input.ThicknessID.String(),
		input.Height.String(),
		input.Width.String(),
		fmt.Sprintf("%t", input.Painted),
		fmt.Sprintf("%d", input.Quantity),
		fmt.Sprintf("%d", itemCount),
		strings.Join(extras, ","),
	}, "|")

	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}
