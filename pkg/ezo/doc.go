// Package ezo talks to Atlas Scientific EZO sensor chips over I2C.
//
// An EZO transaction writes an ASCII command, waits for the chip to process
// it, then reads a fixed-size reply buffer. The first byte of the buffer is a
// status code:
//
//	1    success, followed by a NUL-terminated ASCII reply
//	2    syntax error
//	254  still processing
//	255  no data to send
//
// Status codes other than success, and every bus failure, are returned as
// *device.Error values so the responder can turn them into failure replies.
//
// Chips are addressed through tinygo's drivers.I2C interface. On Linux hosts
// OpenBus returns a periph bus that satisfies it; package sim provides a
// simulated bus for tests and bench setups without hardware.
package ezo
