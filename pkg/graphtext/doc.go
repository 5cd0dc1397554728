// Package graphtext turns user-typed graph text into a validated [graph.Graph].
//
// # Grammar
//
//	document    := header_line NEWLINE+ edge_line*
//	header_line := INTEGER WS+ INTEGER                  ; nodes_count, edges_count
//	edge_line   := INTEGER WS+ INTEGER (WS+ INTEGER)?   ; from, to, [weight]
//
// Example with zero-based nodes:
//
//	3 2
//	0 1 5
//	1 2
//
// # Pipeline
//
// [Parse] runs the whole contract and is what callers should use:
//
//  1. [SplitLines]: trim the text, split on runs of newlines
//  2. [ParseIntLine]: split a line on whitespace, convert each segment
//  3. [Build]: header, edge count check, [ParseEdge] per edge line
//  4. [ValidateEndpoints]: every endpoint within [base, base+nodes-1]
//
// [Build] and [ValidateEndpoints] are exported separately because the
// structural grammar and the node-reference check are distinct failures.
//
// # Integer Conversion
//
// Segments are converted with leading-numeral semantics: an optional sign,
// then digits up to the first non-digit. "12abc" is 12 and "1e3" is 1.
// A "0x"/"0X" prefix switches to hexadecimal, so "0x1f" is 31. A segment
// that does not start with a digit (after the sign and prefix) is a
// PARSE_ERROR.
//
// # Errors
//
// Every failure is a *errors.Error from pkg/errors carrying one of
// PARSE_ERROR, EMPTY_INPUT, MALFORMED_HEADER, EDGE_COUNT_MISMATCH,
// INVALID_EDGE_DEFINITION or EDGE_OUT_OF_RANGE. Parsing stops at the first
// failure and never returns a partial graph.
//
// All functions are pure and safe for concurrent use.
package graphtext
