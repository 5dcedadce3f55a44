package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jlucero/shop-api/internal/validate"
)

func TestEmail(t *testing.T) {
	got, ok := validate.Email("  Ana.Lopez@Example.COM ")
	assert.True(t, ok)
	assert.Equal(t, "ana.lopez@example.com", got)

	for _, bad := range []string{"", "no-at-sign", "a@b", "a@b.", "@example.com"} {
		_, ok := validate.Email(bad)
		assert.False(t, ok, "input %q", bad)
	}
}

func TestName(t *testing.T) {
	got, ok := validate.Name("  Ana ")
	assert.True(t, ok)
	assert.Equal(t, "Ana", got)

	_, ok = validate.Name("   ")
	assert.False(t, ok)

	_, ok = validate.Name(strings.Repeat("x", 31))
	assert.False(t, ok)
}

func TestPassword(t *testing.T) {
	assert.False(t, validate.Password("short"))
	assert.True(t, validate.Password("12345678"))
	assert.True(t, validate.Password(strings.Repeat("x", 72)))
	assert.False(t, validate.Password(strings.Repeat("x", 73))) // beyond bcrypt's limit
}

func TestPriceAndStock(t *testing.T) {
	assert.True(t, validate.Price(0))
	assert.True(t, validate.Price(19.99))
	assert.False(t, validate.Price(-0.01))
	assert.False(t, validate.Price(1e9))

	assert.True(t, validate.Stock(0))
	assert.True(t, validate.Stock(5))
	assert.False(t, validate.Stock(-1))
}
