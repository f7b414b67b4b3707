// Package database provides SQLite-based storage for scan history.
// Each completed directory scan is stored as one record with its full
// per-archive results, so past collection health can be reviewed and
// compared without rescanning.
package database
