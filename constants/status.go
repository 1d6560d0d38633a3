package constants

// DocumentStatus is the canonical lifecycle status for rows in documents.
type DocumentStatus string

// Stable values (store these exact strings in DB).
const (
	StatusUploaded   DocumentStatus = "UPLOADED"   // file stored, not processed yet
	StatusProcessing DocumentStatus = "PROCESSING" // extraction in progress
	StatusDone       DocumentStatus = "DONE"       // extraction finished
	StatusFailed     DocumentStatus = "FAILED"     // terminal failure, retryable via reprocess
)
