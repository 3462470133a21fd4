package config

import "fmt"

// ConfigError reports a missing or invalid configuration key. It is fatal at
// construction time.
type ConfigError struct {
	Key    string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := "invalid configuration"
	if e.Key != "" {
		msg = fmt.Sprintf("%s: %q %s", msg, e.Key, e.Reason)
	} else if e.Reason != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
