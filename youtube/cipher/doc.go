// Package cipher recovers the signature and n-parameter transforms from a
// player script and replays them over URL parameters.
//
// The player script obfuscates both transforms as short JavaScript functions
// whose names rotate per release but whose code shapes are stable: every
// transform is a sequence of four primitive array operations (reverse, head
// swap, slice, splice). Extraction matches those shapes structurally and
// reduces each function into an ordered Token sequence; Apply replays the
// sequence through a fixed interpreter. No script code is ever executed.
package cipher
