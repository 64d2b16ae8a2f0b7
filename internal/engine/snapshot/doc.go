// Package snapshot serializes the content of an editing root so history
// entries can hold it without keeping live node references.
//
// A Codec encodes the children of a root and decodes them back; Restore
// swaps decoded content into a live root. The default Structural codec is
// exact for every tree. markup.Codec stores plain HTML instead and is
// exact only for trees without empty or adjacent text nodes.
package snapshot
