package constants

// DocStatus is the canonical processing state for a document.
type DocStatus string

// Stable values (store these exact strings in DB).
const (
	DocStatusQueued     DocStatus = "QUEUED"     // waiting for a pipeline run
	DocStatusProcessing DocStatus = "PROCESSING" // run in progress
	DocStatusProcessed  DocStatus = "PROCESSED"  // terminal success
	DocStatusFailed     DocStatus = "FAILED"     // terminal failure, retriggerable
)
