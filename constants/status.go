package constants

// DocStatus is the canonical status for a processed document, stored in the
// journal and reported in the batch summary.
type DocStatus string

// Stable values (store these exact strings in DB).
const (
	DocStatusRenamed  DocStatus = "RENAMED"  // metadata extracted, file renamed
	DocStatusFallback DocStatus = "FALLBACK" // nothing extracted, fallback name applied
	DocStatusDryRun   DocStatus = "DRY_RUN"  // name computed, rename skipped
	DocStatusFailed   DocStatus = "FAILED"   // terminal failure for this document
)
