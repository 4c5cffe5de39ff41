// Package emit materializes resolved icon variants on disk: it bakes the
// master SVG with the variant's colors, writes the SVG atomically, and
// optionally rasterizes a PNG sibling.
//
// All writes go through a temp-file-then-rename path so an interrupt or
// I/O error mid-item can never leave a half-written output file behind.
package emit
