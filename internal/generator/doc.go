// Package generator drives the batch: for each configured site path it
// scrapes the live page, renders the fallback template and writes the
// minified result into the output tree.
package generator
