package domain

import (
	"fmt"
	"strings"
)

// FormatTicketNumber renders the organization-scoped ticket number:
// "TKT-" + the first three characters of the organization id uppercased +
// a zero-padded six digit sequence. The format is part of the public
// contract and must stay stable.
func FormatTicketNumber(organizationID string, seq int64) string {
	prefix := organizationID
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	return fmt.Sprintf("TKT-%s-%06d", strings.ToUpper(prefix), seq)
}
