// Package report renders run results for the operator.
//
// Text output highlights each replaced sequence in its surrounding bytes,
// once as it was and once as it became, and lists the suspicious runs that
// remain. Context is made safe for a terminal: control characters are
// dropped, and around remaining runs only printable ASCII is kept. Matched
// bad sequences are always shown as \xHH escapes.
//
// Summary is the same information for --format json.
package report
