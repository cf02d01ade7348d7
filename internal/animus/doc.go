// Package animus owns the receiving side of the control channel.
//
// Ownership boundary:
// - frame ingestion: decode or fall back to the ignore sentinel
// - dispatch of decoded actions to a Runtime
// - report construction and reply encoding
// - Node, the in-process runtime backed by a TOML save file
package animus
