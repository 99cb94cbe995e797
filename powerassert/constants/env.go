package constant

// Environment variables read by the config package.
const (
	EnvMaxValueLength = "POWERASSERT_MAX_VALUE_LENGTH"
	EnvMaxDepth       = "POWERASSERT_MAX_DEPTH"
	EnvMaxItems       = "POWERASSERT_MAX_ITEMS"
	EnvDisableHints   = "POWERASSERT_DISABLE_HINTS"
	EnvLogLevel       = "POWERASSERT_LOG_LEVEL"
	EnvEnvironment    = "ENV"
	EnvGoEnvironment  = "GO_ENV"
)
