// File: protocol/scanner.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Stateless frame scanner over an accumulated connection buffer.

package protocol

import "bytes"

// ScanFunc receives one complete frame. The slice aliases the scanned buffer
// and must not be retained after the call returns.
type ScanFunc func(frame []byte)

// Scan walks buf from the start and reports every complete frame to fn, in
// arrival order, with its exact byte range. A frame runs from the end of the
// previous frame through the SOH that terminates the checksum field.
//
// The checksum marker only counts when it opens a field: it must sit at the
// start of the current frame or right after an SOH. Tags such as "110=" or
// values containing "10=" therefore never close a frame. This is stricter than
// a plain substring search for "10=", which would end a frame inside such a
// tag or value; streams carrying them are split at different boundaries.
//
// Scanning stops when no marker remains or when the marker is not yet followed
// by an SOH (partial checksum field). The return value is the number of bytes
// consumed by complete frames; the caller keeps buf[consumed:] for the next
// call. fn may be nil to only count.
func Scan(buf []byte, fn ScanFunc) (consumed int) {
	pos := 0
	for pos < len(buf) {
		rel := bytes.Index(buf[pos:], trailer)
		if rel < 0 {
			break
		}
		at := pos + rel
		if at != consumed && buf[at-1] != SOH {
			pos = at + 1
			continue
		}
		value := at + len(trailer)
		end := bytes.IndexByte(buf[value:], SOH)
		if end < 0 {
			break
		}
		next := value + end + 1
		if fn != nil {
			fn(buf[consumed:next:next])
		}
		consumed = next
		pos = next
	}
	return consumed
}
