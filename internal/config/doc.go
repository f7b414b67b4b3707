// Package config provides configuration structures and utilities for
// epubscan. It defines the options controlling directory scans, report
// generation, and scan-history storage, and loads the optional .epubscan
// configuration file.
package config
