// Package model defines the data structures shared across epubscan:
// per-archive validation results, missing-resource findings, and the
// outcome of a directory scan.
package model
