package constants

// DocTypes holds the allowed values for the AI payload doc_type field.
// DocTypeDefault is used whenever the model returns anything else.
var DocTypes = map[string]struct{}{
	"curriculo":   {},
	"contrato":    {},
	"nota_fiscal": {},
	"boleto":      {},
	"fatura":      {},
	"recibo":      {},
	"comprovante": {},
	"outro":       {},
}

const DocTypeDefault = "outro"

// SeniorityLevels holds the allowed values for experience.seniority.
var SeniorityLevels = map[string]struct{}{
	"junior":  {},
	"pleno":   {},
	"senior":  {},
	"lead":    {},
	"unknown": {},
}

// SkillLevels holds the allowed values for a skill's level field.
var SkillLevels = map[string]struct{}{
	"unknown":      {},
	"basic":        {},
	"intermediate": {},
	"advanced":     {},
}

const LevelUnknown = "unknown"

// ReasoningEfforts holds the allowed OpenAI reasoning effort values.
var ReasoningEfforts = map[string]struct{}{
	"minimal": {},
	"low":     {},
	"medium":  {},
	"high":    {},
}

const ReasoningEffortDefault = "low"
