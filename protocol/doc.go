// Package protocol
// Author: momentics <momentics@gmail.com>
//
// Frame delimiting for the FIX tag=value wire format.
//
// The engine does not interpret messages. It only locates frame boundaries:
// a frame ends at the first SOH (0x01) that follows the checksum field "10=".
// Scan is a pure function over a byte span, so the only state needed to resume
// after a partial frame is the unconsumed tail kept by the caller.
//
// The builder helpers (AppendField, AppendChecksum, BuildMessage) produce
// well-formed frames for clients, tests and load generators.
package protocol
