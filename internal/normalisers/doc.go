// Package normalisers provides implementations of the Normaliser
// interface for the transcript formats found in the collections tree.
// The hansard normaliser carries the structuring rules and handles
// both the HTML parts and plain text (including extracted PDF text).
//
// Normalisers are registered with the Registry at startup and selected
// by MIME type and priority.
package normalisers
