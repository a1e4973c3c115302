// Package extractors provides implementations of the TextExtractor
// interface for the supported document formats. Each extractor knows how
// to pull plain text out of a specific MIME type.
//
// Extractors are registered with the Registry at startup; the registry
// selects by declared MIME type, sniffing from the filename extension
// when the caller declares none.
package extractors
