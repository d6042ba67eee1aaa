// Package output maps site paths to files in the output tree and writes
// minified pages there.
package output
