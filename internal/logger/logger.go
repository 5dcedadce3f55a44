// Package logger emits single-line JSON log entries. Handlers use it for
// auth and audit events; secrets (passwords, token strings) are never
// accepted as fields, only derived facts such as "wrong password" or a
// token hash prefix.
package logger

import (
	"encoding/json"
	"log"
	"time"

	"github.com/labstack/echo/v4"
)

type entry struct {
	TS     string         `json:"ts"`
	Level  string         `json:"level"`
	IP     string         `json:"ip,omitempty"`
	Method string         `json:"method,omitempty"`
	Path   string         `json:"path,omitempty"`
	Action string         `json:"action"`
	Err    string         `json:"err,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

func write(level string, c echo.Context, action string, err error, fields map[string]any) {
	e := entry{
		TS:     time.Now().UTC().Format(time.RFC3339),
		Level:  level,
		Action: action,
		Fields: fields,
	}
	if c != nil {
		e.IP = c.RealIP()
		e.Method = c.Request().Method
		e.Path = c.Path()
	}
	if err != nil {
		e.Err = err.Error()
	}
	b, _ := json.Marshal(e)
	log.Println(string(b))
}

// Info records a routine event.
func Info(c echo.Context, action string, fields map[string]any) {
	write("info", c, action, nil, fields)
}

// Security records an authentication or authorization failure. The detail
// (user not found vs wrong password) stays in the logs and must never be
// reflected in the HTTP response.
func Security(c echo.Context, action string, fields map[string]any) {
	write("warn", c, action, nil, fields)
}

// Error records a failure with its underlying error.
func Error(c echo.Context, action string, err error, fields map[string]any) {
	write("error", c, action, err, fields)
}
