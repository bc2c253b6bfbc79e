package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTicketNumber(t *testing.T) {
	assert.Equal(t, "TKT-ACM-000001", FormatTicketNumber("acme-corp", 1))
	assert.Equal(t, "TKT-ACM-000042", FormatTicketNumber("acme-corp", 42))
	assert.Equal(t, "TKT-ACM-1000000", FormatTicketNumber("acme-corp", 1000000))
}

func TestFormatTicketNumber_ShortOrganizationID(t *testing.T) {
	assert.Equal(t, "TKT-AB-000007", FormatTicketNumber("ab", 7))
}
