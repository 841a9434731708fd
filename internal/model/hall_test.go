package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitsCapacity(t *testing.T) {
	h := Hall{Capacity: 200}
	assert.True(t, h.FitsCapacity(1))
	assert.True(t, h.FitsCapacity(200))
	assert.False(t, h.FitsCapacity(201))
	assert.False(t, h.FitsCapacity(0))
}

func TestValidPaymentMethod(t *testing.T) {
	for _, m := range []string{"credit_card", "debit_card", "bank_transfer", "paypal"} {
		assert.True(t, ValidPaymentMethod(m), m)
	}
	assert.False(t, ValidPaymentMethod("cash"))
	assert.False(t, ValidPaymentMethod("CREDIT_CARD"))
	assert.False(t, ValidPaymentMethod(""))
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleCustomer))
	assert.True(t, ValidRole(RoleAdmin))
	assert.False(t, ValidRole("owner"))
	assert.False(t, ValidRole("ADMIN"))
}
