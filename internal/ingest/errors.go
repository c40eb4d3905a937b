package ingest

import (
	"errors"
	"fmt"
)

var ErrConfig = errors.New("ingest: invalid body data")

// ConfigError reports a problem with one body, or with the file as a whole
// when Body is empty.
type ConfigError struct {
	File  string
	Body  string
	Field string
	Msg   string
	Err   error
}

func (e *ConfigError) Error() string {
	where := e.File
	if e.Body != "" {
		where += ": " + e.Body
	}
	if e.Field != "" {
		where += "." + e.Field
	}
	msg := e.Msg
	if e.Err != nil {
		if msg != "" {
			msg += ": "
		}
		msg += e.Err.Error()
	}
	return fmt.Sprintf("ingest: %s: %s", where, msg)
}

func (e *ConfigError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConfig}
	}
	return []error{ErrConfig, e.Err}
}
