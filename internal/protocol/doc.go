// Package protocol owns the animus control contract: the Command and Report
// envelopes, the Action and Outcome variant sets, and their canonical codec.
//
// Ownership boundary:
// - envelope schema and per-revision variant tables
// - deterministic encode/decode over byte slices
// - error classification (io, decode, encode) for callers
//
// Wire layout (all integers big-endian):
//
//	header:  magic u32 "ANMS" | revision u16 | kind u8 (1 command, 2 report)
//	command: name text | action
//	report:  name text | action | outcome
//	text:    len u16 | utf-8 bytes
//	action:  tag u8 | [receiver payload: len u32 | tract text | animus text | address text | input text]
//	outcome: tag u8 | [return payload: len u32 | bytes]
//
// Return payload shape per action:
//
//	Query, Name, Version                       utf-8 text (Outcome.Text)
//	ListStructures, ListOutputs, ListInputs     count u32 | count x text (Outcome.List)
//	ReportInputs                               count u32 | count x (input text | level u32) (Outcome.Readings)
//	Status, Wake, Save, Sleep, Terminate       Success or Fail only
//	ConnectTract                               Success or Fail only
//	Ignore                                     never answered
package protocol
