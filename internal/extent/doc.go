// Package extent splits a byte buffer into alternating clean and suspicious
// ranges.
//
// A suspicious range is a maximal run of bytes in the high half of the byte
// space (0x80-0xFF). Partition always emits a clean extent first, even when
// it is empty, so the result strictly alternates clean, suspicious, clean,
// ... and ends with a (possibly empty) clean tail:
//
//	"A\x80\x81B\x82C" -> ["A"] ["\x80\x81"] ["B"] ["\x82"] ["C"]
//	"\x80"            -> [""]  ["\x80"]     [""]
//
// Extents are views, not copies. Two extents compare equal when their bytes
// are equal, wherever they occur; offsets are carried for reporting only.
package extent
