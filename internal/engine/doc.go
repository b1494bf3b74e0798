// Package engine applies a mapping table to a buffer and discovers the
// suspicious runs the table does not yet cover.
//
// ORDERING:
//
// Mappings are applied longest bad sequence first, ties in id order, and
// application stops at the first unresolved mapping in that order (the
// cut). A resolved rule for a short sequence may be a substring of a
// longer, still unresolved one; applying it would truncate the longer
// pattern and hide it from the operator. Everything at or after the cut
// waits until the operator resolves the blocker.
//
//	\x80\x81\x82:TODO   <- cut here
//	\x80\x81:x          withheld
//	\x90:y              withheld
//
// Each eligible mapping makes one left-to-right, non-overlapping pass over
// the output of the previous one. Buffers are never modified in place.
//
// RUN:
//
// One run is strictly sequential: load table, Apply, Discover, save table.
// Discover only appends unresolved mappings; resolving them is a manual
// edit of the table file between runs. A run over already-cleaned output
// with a fully resolved table replaces nothing and discovers nothing.
package engine
