package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidCategory(t *testing.T) {
	assert.True(t, IsValidCategory(CategoryPhone))
	assert.True(t, IsValidCategory(CategoryHomeAppliance))
	assert.False(t, IsValidCategory("Groceries"))
	assert.False(t, IsValidCategory(""))
	assert.False(t, IsValidCategory("phone")) // case-sensitive
}

func TestFormatPrice_GroupsThousands(t *testing.T) {
	assert.Equal(t, "30.000", FormatPrice(30000))
	assert.Equal(t, "1.250.000", FormatPrice(1250000))
	assert.Equal(t, "999", FormatPrice(999))
	assert.Equal(t, "0", FormatPrice(0))
}
