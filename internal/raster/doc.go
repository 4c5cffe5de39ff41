// Package raster provides optional SVG-to-PNG rasterization for icon
// variants, built on github.com/srwiley/oksvg and
// github.com/srwiley/rasterx.
//
// Availability is probed exactly once at process start: Detect renders a
// tiny built-in SVG and returns a Rasterizer only if the round trip works.
// Components receive the result explicitly and treat a nil Rasterizer as
// "PNG export unavailable", which downgrades PNG emission to an
// informational skip rather than a failure.
package raster
