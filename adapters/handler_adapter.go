// File: adapters/handler_adapter.go
// Package adapters
// Author: momentics <momentics@gmail.com>
//
// Frame middleware: panic recovery, per-frame logging and metrics.

package adapters

import (
	"github.com/momentics/hioload-fix/api"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// LoggingMiddleware logs every frame at debug level. With debug disabled the
// call costs a level check.
func LoggingMiddleware(log zerolog.Logger) api.Middleware {
	return func(next api.FrameHandler) api.FrameHandler {
		return api.FrameHandlerFunc(func(fd int, frame []byte) {
			log.Debug().Int("fd", fd).Int("len", len(frame)).Msg("frame")
			next.HandleFrame(fd, frame)
		})
	}
}

// RecoveryMiddleware recovers from panics in the wrapped handler so a faulty
// handler cannot take down the event loop. The frame is dropped.
func RecoveryMiddleware(log zerolog.Logger) api.Middleware {
	return func(next api.FrameHandler) api.FrameHandler {
		return api.FrameHandlerFunc(func(fd int, frame []byte) {
			defer func() {
				if r := recover(); r != nil {
					log.Error().Int("fd", fd).Interface("panic", r).Msg("frame handler panic recovered")
				}
			}()
			next.HandleFrame(fd, frame)
		})
	}
}

// MetricsMiddleware counts frames and observes their sizes. Either argument
// may be nil.
func MetricsMiddleware(frames prometheus.Counter, sizes prometheus.Observer) api.Middleware {
	return func(next api.FrameHandler) api.FrameHandler {
		return api.FrameHandlerFunc(func(fd int, frame []byte) {
			if frames != nil {
				frames.Inc()
			}
			if sizes != nil {
				sizes.Observe(float64(len(frame)))
			}
			next.HandleFrame(fd, frame)
		})
	}
}
