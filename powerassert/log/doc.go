// Package log defines the logging interface and typed logging fields used across
// lib-powerassert.
//
// Adapters (such as the zap package) implement Logger so assertion code can keep
// logging calls consistent across backends.
package log
