// Package extract provides plain-text extraction for rich document
// formats. Each subpackage handles one format; the registry selects an
// extractor by file extension.
package extract
