package order

import (
	"strings"

	"github.com/google/uuid"
)

const documentNumberLength = 10

// NewDocumentNumber generates a human-facing document number such as
// "ORD-3F2A9C81D4" or "INV-0B7E42A1C9" from UUID entropy. Uniqueness is
// enforced by the database, not by this generator.
func NewDocumentNumber(prefix string) string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return prefix + "-" + strings.ToUpper(raw[:documentNumberLength])
}
