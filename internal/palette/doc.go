// Package palette provides the finish-to-color lookup table used when
// baking master SVGs into variants.
//
// The palette is a flat immutable mapping, not a type hierarchy: each
// finish name resolves to a single foreground hex color, and each mode
// resolves to a background token. The built-in table covers the standard
// StrategyDECK finishes; an optional JSONC override file can extend or
// replace individual entries without rebuilding the binary.
package palette
