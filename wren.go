// Package wren holds module-wide metadata.
package wren

// Version is the wren CLI version.
const Version = "0.1.0"
