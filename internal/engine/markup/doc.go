// Package markup converts between dom trees and serialized HTML.
//
// Parse reads a fragment in a <body> context, Render and String write it
// back. StripWhitespace works on the serialized form directly and removes
// inter-tag whitespace that has no effect on the rendered document, using
// the inline section of a schema.Table to decide which tags keep their
// surrounding whitespace.
package markup
