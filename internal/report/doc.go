// Package report renders validation results and scan outcomes in
// human-readable text, JSON, and Markdown formats.
package report
