package cart

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Fingerprint derives a stable identity for a configured cart line. Two lines
// merge only when every configuration knob matches: product, variant, the set
// of add-ons, and the personalization texts. Addon order does not matter.
func Fingerprint(productID uuid.UUID, variantID *uuid.UUID, addonIDs []uuid.UUID, cardMessage, ribbonText, ribbonColor *string) string {
	parts := []string{productID.String()}
	if variantID != nil {
		parts = append(parts, variantID.String())
	} else {
		parts = append(parts, "")
	}

	addons := make([]string, 0, len(addonIDs))
	for _, id := range addonIDs {
		addons = append(addons, id.String())
	}
	sort.Strings(addons)
	parts = append(parts, strings.Join(addons, ","))

	for _, text := range []*string{cardMessage, ribbonText, ribbonColor} {
		if text != nil {
			parts = append(parts, *text)
		} else {
			parts = append(parts, "")
		}
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
