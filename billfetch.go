// Package billfetch provides a resumable retriever for legislative bill
// documents published at predictable URLs on govinfo.gov. It enumerates the
// candidate identifier space for a congress, probes which packages actually
// exist, downloads confirmed documents to a deterministic on-disk layout,
// and tracks completed bills in a progress ledger so repeated runs skip work
// already done.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, fs/, sqlite/).
package billfetch
