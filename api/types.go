// File: api/types.go
// Author: momentics <momentics@gmail.com>
//
// Shared API-level type declarations and constants.

package api

// CloseReason tells why the engine released a connection.
type CloseReason int

const (
	ClosePeer CloseReason = iota
	CloseReadError
	CloseOverflow
	CloseHangup
	CloseShutdown
)

func (r CloseReason) String() string {
	switch r {
	case ClosePeer:
		return "peer_closed"
	case CloseReadError:
		return "read_error"
	case CloseOverflow:
		return "overflow"
	case CloseHangup:
		return "hangup"
	case CloseShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// Stats is a point-in-time copy of engine counters.
type Stats struct {
	Accepted   uint64 // connections that received a slot
	Rejected   uint64 // connections closed on accept (no slot or fd out of range)
	Active     uint64 // slots currently in use
	Frames     uint64 // frames delivered to the handler
	BytesRead  uint64
	PeerClosed uint64
	ReadErrors uint64
	Overflows  uint64
	Hangups    uint64
}

// StatsSource is anything that can report engine Stats.
type StatsSource interface {
	Stats() Stats
}

// Add returns the field-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Accepted:   s.Accepted + o.Accepted,
		Rejected:   s.Rejected + o.Rejected,
		Active:     s.Active + o.Active,
		Frames:     s.Frames + o.Frames,
		BytesRead:  s.BytesRead + o.BytesRead,
		PeerClosed: s.PeerClosed + o.PeerClosed,
		ReadErrors: s.ReadErrors + o.ReadErrors,
		Overflows:  s.Overflows + o.Overflows,
		Hangups:    s.Hangups + o.Hangups,
	}
}
