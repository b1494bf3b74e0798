// Package mapping holds the table of bad byte sequences and their
// replacements, and its persisted line format.
//
// Each line of the table file is one mapping, in id order:
//
//	\xE2\x80\x99:'
//	\xC3\xA9:é
//	\x81:
//	\x80\x81:TODO
//
// The left side is the bad sequence as \xHH escapes. The right side is the
// literal replacement, empty for deletion, or TODO while the operator has
// not decided. A missing file is an empty table; any unparseable line is
// fatal, since the replacement order cannot be trusted from a partial table.
package mapping
