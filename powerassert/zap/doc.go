// Package zap adapts go.uber.org/zap to the powerassert log.Logger interface.
//
// Diagnostics produced by failed assertions travel as structured fields, so a
// rendered expression diagram stays a single JSON value in production sinks.
package zap
