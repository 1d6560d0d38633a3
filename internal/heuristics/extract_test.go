package heuristics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractContactPhone(t *testing.T) {
	assert.Equal(t, "(11) 99999-1234", ExtractContactPhone("Contato: (11) 99999-1234 ou email"))
	assert.Equal(t, "+55 11 98888-0000", ExtractContactPhone("Tel +55 11 98888-0000"))
	assert.Empty(t, ExtractContactPhone("CEP 01310-100"), "short digit runs are not phones")
	assert.Empty(t, ExtractContactPhone("sem telefone aqui"))
}

func TestExtractAgeYears(t *testing.T) {
	age := ExtractAgeYears("Maria Silva, 34 anos de idade, São Paulo")
	require.NotNil(t, age)
	assert.Equal(t, 34, *age)

	age = ExtractAgeYears("Idade: 29")
	require.NotNil(t, age)
	assert.Equal(t, 29, *age)

	assert.Nil(t, ExtractAgeYears("154 anos"), "out of range is discarded")
	assert.Nil(t, ExtractAgeYears("texto sem idade"))
}

func TestExtractExperienceYears(t *testing.T) {
	years := ExtractExperienceYears("Possui 6 anos de experiência com backend")
	require.NotNil(t, years)
	assert.Equal(t, 6, *years)

	years = ExtractExperienceYears("Experiência de 12 anos em vendas")
	require.NotNil(t, years)
	assert.Equal(t, 12, *years)

	assert.Nil(t, ExtractExperienceYears("experiência com Docker"))
}
