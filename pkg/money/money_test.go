package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/procifarmed/storefront-api/pkg/errors"
)

func TestParsePriceCentsAcceptsPtBRGrammar(t *testing.T) {
	cases := map[string]int{
		"89,50":        8950,
		"1.234,56":     123456,
		"  89,50 ":     8950,
		"10":           1000,
		"0,5":          50,
		"0,05":         5,
		"1.234":        123400,
		"1234,5":       123450,
		"12.345.678,9": 1234567890,
		"0":            0,
	}
	for input, want := range cases {
		got, err := ParsePriceCents(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}
}

func TestParsePriceCentsRejectsEverythingElse(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"-1,00",
		"89.5",
		"89.50",
		"1,234",
		"1,2,3",
		"1.23,45",
		"12.3456,00",
		"R$ 10,00",
		"abc",
		"NaN",
		"Infinity",
		"1e3",
		"10,",
		",50",
		"1 234,56",
		"99999999999999,99",
	}
	for _, input := range inputs {
		_, err := ParsePriceCents(input)
		require.Error(t, err, "input %q", input)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "input %q: %v", input, err)
	}
}

func TestFormatCentsInputRoundTrip(t *testing.T) {
	assert.Equal(t, "89,50", FormatCentsInput(8950))
	assert.Equal(t, "0,05", FormatCentsInput(5))
	assert.Equal(t, "1234,56", FormatCentsInput(123456))

	for _, cents := range []int{0, 1, 99, 8950, 123456, 3975} {
		parsed, err := ParsePriceCents(FormatCentsInput(cents))
		require.NoError(t, err)
		assert.Equal(t, cents, parsed)
	}
}

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 89,50", FormatBRL(8950))
	assert.Equal(t, "R$ 179,00", FormatBRL(17900))
	assert.Equal(t, "R$ 1.234,56", FormatBRL(123456))
	assert.Equal(t, "R$ 1.000.000,00", FormatBRL(100000000))
	assert.Equal(t, "R$ 12.345.678,90", FormatBRL(1234567890))
	assert.Equal(t, "-R$ 1.234,05", FormatBRL(-123405))
	assert.Equal(t, "R$ 0,00", FormatBRL(0))
	assert.Equal(t, "-R$ 5,00", FormatBRL(-500))
}

func TestParseReais(t *testing.T) {
	cents, ok := ParseReais("89,5")
	require.True(t, ok)
	assert.Equal(t, 8950, cents)

	cents, ok = ParseReais("100.25")
	require.True(t, ok)
	assert.Equal(t, 10025, cents)

	_, ok = ParseReais("")
	assert.False(t, ok)
	_, ok = ParseReais("cheap")
	assert.False(t, ok)
}
