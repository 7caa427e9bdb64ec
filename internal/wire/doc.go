// Package wire implements the framing of the notebook line protocol.
//
// Commands go out as single ASCII lines terminated by '\n' and are flushed
// immediately. Replies come back in one of two framings, fixed for the life
// of a connection:
//
//   - FramingLine: a reply is one '\n'-terminated line followed by the
//     two-byte prompt "> ", which is discarded.
//   - FramingDelimiter: a reply is everything up to the marker "\n> ".
//
// Multi-line replies (help, user and note listings, dump) are read with
// ReadBlock: line framing reads lines until the prompt shows up at the
// start of a line, delimiter framing returns the single frame as is. An
// empty block is a bare prompt in both framings.
package wire
