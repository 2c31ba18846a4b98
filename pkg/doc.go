// Package pkg provides shared utilities for the tinyusb OSAL.
//
// This package contains common functionality used across the OSAL contract
// package, its bindings, and the RTOS simulator, including:
//
//   - Structured logging via Go's standard [log/slog] package
//   - Sentinel error types for allocator, kernel, and binding misuse
//   - Component identifiers for log filtering
//
// The package is designed to have zero external dependencies, relying
// only on the Go standard library.
//
// # Logging
//
// The logging subsystem wraps [log/slog] with OSAL-specific context:
//
//	pkg.SetLogLevel(slog.LevelDebug)
//	pkg.LogInfo(pkg.ComponentKernel, "task ready", "task", "usbd")
//
// # Errors
//
// Misuse and lifecycle errors are defined as sentinel values. The OSAL
// contract surface itself stays boolean; these sentinels serve the
// allocator, the simulator kernel, and diagnostic logging:
//
//	if errors.Is(err, pkg.ErrBufferSize) {
//	    // Queue buffer does not match item size times depth
//	}
package pkg
