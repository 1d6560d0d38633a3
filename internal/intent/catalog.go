package intent

// Static lookup data for intent resolution. Built once at init, read-only
// afterwards, safe to share across goroutines.

// synonymEntry keeps the synonym table ordered: exact-lookup ties and anchor
// listings both depend on insertion order, which Go maps would not preserve.
type synonymEntry struct {
	Phrase string
	Key    string
}

// synonymTable maps free-text phrases commonly seen on Brazilian documents
// to builtin field keys.
var synonymTable = []synonymEntry{
	{"vencimento", "due_date"},
	{"data de vencimento", "due_date"},
	{"data vencimento", "due_date"},
	{"data de emissao", "issue_date"},
	{"data emissao", "issue_date"},
	{"emissao", "issue_date"},
	{"valor", "document_value"},
	{"valor do documento", "document_value"},
	{"valor total", "document_value"},
	{"total", "document_value"},
	{"juros", "juros"},
	{"multa", "multa"},
	{"codigo de barras", "barcode"},
	{"linha digitavel", "barcode"},
	{"beneficiario", "payee_name"},
	{"cedente", "payee_name"},
	{"pagador", "payer_name"},
	{"sacado", "payer_name"},
	{"cnpj do beneficiario", "payee_cnpj"},
	{"cnpj beneficiario", "payee_cnpj"},
	{"cnpj do pagador", "payer_cnpj"},
	{"cnpj pagador", "payer_cnpj"},
	{"cpf", "cpf"},
	{"numero do documento", "document_number"},
	{"nosso numero", "document_number"},
}

// typeByBuiltin maps a builtin key to its semantic value type. Keys absent
// from the table resolve to "text".
var typeByBuiltin = map[string]string{
	"issue_date":      "date",
	"due_date":        "date",
	"document_value":  "money",
	"juros":           "money",
	"multa":           "money",
	"barcode":         "barcode",
	"payee_name":      "text",
	"payer_name":      "text",
	"payee_cnpj":      "cnpj",
	"payer_cnpj":      "cnpj",
	"cpf":             "cpf",
	"document_number": "id",
}

// DefaultBuiltinFields is the registry used when the caller has no persisted
// configuration of its own. Order matters: it defines exact-match tie-breaks.
var DefaultBuiltinFields = []BuiltinField{
	{Key: "issue_date", Label: "Data de Emissão"},
	{Key: "due_date", Label: "Data de Vencimento"},
	{Key: "document_value", Label: "Valor do Documento"},
	{Key: "juros", Label: "Juros"},
	{Key: "multa", Label: "Multa"},
	{Key: "barcode", Label: "Código de Barras"},
	{Key: "payee_name", Label: "Beneficiário"},
	{Key: "payer_name", Label: "Pagador"},
	{Key: "payee_cnpj", Label: "CNPJ do Beneficiário"},
	{Key: "payer_cnpj", Label: "CNPJ do Pagador"},
	{Key: "cpf", Label: "CPF"},
	{Key: "document_number", Label: "Número do Documento"},
}
