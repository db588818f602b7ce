// File: protocol/builder.go
// Author: momentics <momentics@gmail.com>
//
// Helpers that append well-formed tag=value frames to a byte slice.

package protocol

import "strconv"

// Field is a single tag=value pair.
type Field struct {
	Tag   int
	Value string
}

// AppendField appends "tag=value<SOH>" to dst.
func AppendField(dst []byte, tag int, value []byte) []byte {
	dst = strconv.AppendInt(dst, int64(tag), 10)
	dst = append(dst, '=')
	dst = append(dst, value...)
	return append(dst, SOH)
}

// Checksum returns the byte sum of b modulo 256.
func Checksum(b []byte) int {
	var sum int
	for _, c := range b {
		sum += int(c)
	}
	return sum % 256
}

// AppendChecksum appends the "10=NNN<SOH>" trailer computed over all of dst.
func AppendChecksum(dst []byte) []byte {
	sum := Checksum(dst)
	dst = append(dst, trailer...)
	dst = append(dst, byte('0'+sum/100), byte('0'+sum/10%10), byte('0'+sum%10))
	return append(dst, SOH)
}

// BuildMessage appends a complete frame with BeginString, a correct BodyLength,
// MsgType, the given fields and the checksum trailer.
func BuildMessage(dst []byte, beginString, msgType string, fields ...Field) []byte {
	var body []byte
	body = AppendField(body, TagMsgType, []byte(msgType))
	for _, f := range fields {
		body = AppendField(body, f.Tag, []byte(f.Value))
	}
	var msg []byte
	msg = AppendField(msg, TagBeginString, []byte(beginString))
	msg = AppendField(msg, TagBodyLength, strconv.AppendInt(nil, int64(len(body)), 10))
	msg = append(msg, body...)
	return append(dst, AppendChecksum(msg)...)
}
