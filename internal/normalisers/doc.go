// Package normalisers turns document files into page-ordered text.
//
// Each supported domain.DocumentFormat has one DocumentParser variant in a
// subpackage (pdf, docx). The Registry dispatches a path to the parser for
// its extension.
package normalisers
