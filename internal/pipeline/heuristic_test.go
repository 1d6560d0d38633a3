package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docbase-br/docbase/internal/fields"
)

const boletoText = `BOLETO BANCÁRIO - Ficha de Compensação
Beneficiário: ACME Serviços Ltda
CNPJ: 12.345.678/0001-95
Pagador: João da Silva
CPF: 123.456.789-09
Vencimento: 15/03/2026
Valor do documento: R$ 1.234,56
Juros: R$ 12,00
Multa: R$ 24,69
Número do documento: 000123-7
34191.79001 01043.510047 91020.150008 5 91660000123456`

func TestBuildHeuristicPayloadBoleto(t *testing.T) {
	payload, custom := BuildHeuristicPayload(boletoText, nil)

	assert.Equal(t, "boleto", payload.DocumentType)
	assert.Empty(t, custom)

	f := payload.Fields
	assert.Equal(t, "15/03/2026", f["due_date"])
	assert.Equal(t, "1.234,56", f["document_value"])
	assert.Equal(t, "12,00", f["juros"])
	assert.Equal(t, "24,69", f["multa"])
	assert.Equal(t, "12.345.678/0001-95", f["cnpj"])
	assert.Equal(t, "123.456.789-09", f["cpf"])
	assert.Equal(t, "acme servicos ltda", f["payee_name"])
	assert.Equal(t, "joao da silva", f["payer_name"])
	assert.Equal(t, "000123-7", f["document_number"])

	barcode, ok := f["barcode"].(string)
	require.True(t, ok)
	assert.Len(t, barcode, 47)
	assert.Equal(t, "3419179001", barcode[:10])
}

func TestBuildHeuristicPayloadDocTypeFallback(t *testing.T) {
	payload, _ := BuildHeuristicPayload("texto qualquer sem marcador", nil)
	assert.Equal(t, "outro", payload.DocumentType)
}

func TestBuildHeuristicPayloadCustomKeywordAnchor(t *testing.T) {
	keywordMap := map[string]fields.KeywordMapEntry{
		"kw:7": {
			Label:        "Número do Pedido",
			ResolvedKind: "custom",
			Anchors:      []string{"numero do pedido"},
		},
	}
	_, custom := BuildHeuristicPayload("Número do Pedido: PED-2026-001\n", keywordMap)
	assert.Equal(t, "ped-2026-001", custom["kw:7"])
}

func TestBuildHeuristicPayloadBuiltinKeywordDoesNotOverride(t *testing.T) {
	keywordMap := map[string]fields.KeywordMapEntry{
		"kw:3": {
			Label:        "data de vencimento",
			ResolvedKind: "builtin",
			FieldKey:     "due_date",
			Anchors:      []string{"data limite"},
		},
	}
	payload, custom := BuildHeuristicPayload(
		"Vencimento: 10/01/2026\nData limite 20/02/2026\n", keywordMap)
	assert.Equal(t, "10/01/2026", payload.Fields["due_date"])
	assert.Empty(t, custom)
}
