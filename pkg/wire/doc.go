// Package wire defines the textual wire grammar shared by all probenet sensor families.
//
// A frame carries one UTF-8 text message. Requests are commands, replies are
// responses or failure frames.
//
// # Grammar
//
// Tokens are case-sensitive and separated by exactly one space:
//
//	read                 zero-argument command
//	calibrate 7.000      one-argument command, argument as float64
//	error sensor_trouble failure reply, optional free-text detail
//
// Arguments are encoded with exactly three fractional digits and decoded
// permissively: "calibrate 7", "calibrate 7.0" and "calibrate 7.000" all carry
// the value 7.
//
// # Verb Tables
//
// Each sensor family declares its closed command set as a Table keyed by its
// own verb type. The table is the single source of truth for the grammar; both
// the requester and the responder encode and decode through it.
package wire
