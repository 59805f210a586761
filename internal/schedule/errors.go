package schedule

import "fmt"

// ConfigError reports an invalid parameter (partition count, block window,
// volume). It is fatal: no partial computation is attempted.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "schedule: invalid config: " + e.Reason }

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// InputError reports a structurally invalid price series (empty, non-finite
// values, non-monotonic timestamps). It is fatal for the affected series;
// the sweep does not attempt per-partition recovery from it.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string { return "schedule: invalid input: " + e.Reason }

func inputErrorf(format string, args ...any) *InputError {
	return &InputError{Reason: fmt.Sprintf(format, args...)}
}
