package extraction

import "context"

// Extractor runs one structured extraction over document text. The pipeline
// depends on this interface, not on any provider.
type Extractor interface {
	Extract(ctx context.Context, text, filename string) (*NormalizedExtraction, *Meta, error)
}

// SystemPrompt instructs the model to return schema-conforming JSON with
// evidence for every inferred fact. Portuguese because that is the dominant
// document language.
const SystemPrompt = "Voce eh um extrator de informacoes para documentos em portugues e ingles. " +
	"Retorne somente JSON valido seguindo o schema. " +
	"Nao invente dados. Se nao houver evidencias, use null, lista vazia, " +
	"'unknown' ou 'outro' conforme o campo. " +
	"Sempre que inferir algo, preencha o campo de evidence com um trecho curto do texto."
