// Package resolve turns validated variant requests into concrete emission
// plans: which master SVG to read and which output paths to write.
//
// Master selection is a fixed size-threshold policy (32px and below uses
// the micro master), and every resolved output path is verified to stay
// under the configured output directory before any emission happens.
package resolve
