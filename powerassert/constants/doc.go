// Package constant holds telemetry names and environment variable names shared by
// lib-powerassert packages.
package constant
