package enrich

import "github.com/elio-longevai/medicapital-lead-generator-sub000/internal/entity"

// IsPending derives the single "enrichment in progress" signal from its three
// independent sources: the in-flight trigger request, the live polled status,
// and the possibly stale flag cached on the company entity. The trigger flag
// covers the gap before the first poll observes the new job; the polled
// status is authoritative once reporting; the entity flag covers a detail
// view opened on a company whose job was started elsewhere.
//
// Callers recompute this on every use; the value is never cached.
func IsPending(triggerPending bool, polled, entityFlag entity.EnrichmentStatus) bool {
	return triggerPending ||
		polled == entity.EnrichmentPending ||
		entityFlag == entity.EnrichmentPending
}
