package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/erp-service/internal/domain"
)

func TestSaleListQueryIsStableAcrossPages(t *testing.T) {
	status := domain.SaleStatusConfirmed
	query, args := saleListQuery(SaleFilter{
		Status:   &status,
		Customer: "acme",
		Page:     Page{Limit: 20, Offset: 40},
	})

	assert.True(t, strings.HasSuffix(query, " WHERE status=$1 AND customer_name ILIKE $2 ORDER BY sold_at DESC, id LIMIT 20 OFFSET 40"), query)
	assert.Equal(t, []any{status, "%acme%"}, args)
}

func TestPageClauseBounds(t *testing.T) {
	assert.Equal(t, " LIMIT 50 OFFSET 0", Page{}.clause())
	assert.Equal(t, " LIMIT 500 OFFSET 0", Page{Limit: 10_000, Offset: -3}.clause())
}
