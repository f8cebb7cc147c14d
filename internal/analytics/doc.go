// Package analytics derives compliance, risk and incident summaries from
// the unified safety datasets. Records are recomputed on every call and
// never cached; filters narrow the row set before aggregation. Consumers
// that need to recognise closed or high-risk states match by substring
// against the known synonyms, never by strict equality, so values the
// canonicalization step did not anticipate degrade gracefully.
package analytics
