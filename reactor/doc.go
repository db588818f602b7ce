// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor provides the poll-mode readiness reactor (epoll on Linux)
// and the raw non-blocking socket calls the event loop drives through it.
// Nothing here allocates per event: the kernel event array is sized once.
package reactor
