// Package protocol
// Author: momentics <momentics@gmail.com>
//
// FIX tag=value wire constants.

package protocol

const (
	// SOH separates fields and terminates a frame.
	SOH byte = 0x01

	// ChecksumTag is the tag of the trailer field.
	ChecksumTag = "10"

	// Field tags used by BuildMessage.
	TagBeginString = 8
	TagBodyLength  = 9
	TagMsgType     = 35
	TagCheckSum    = 10
)

// trailer is the marker that opens the checksum field.
var trailer = []byte(ChecksumTag + "=")
