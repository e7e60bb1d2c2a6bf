// Package logger provides the structured JSON logger used across the
// service. One line per entry: time, level, module, message and an optional
// error field. Bearer tokens are redacted before anything is written.
package logger

import (
	"encoding/json"
	"log"
	"os"
	"regexp"
	"time"
)

type Level string

const (
	LevelInfo  Level = "INFO"
	LevelError Level = "ERROR"
	LevelDebug Level = "DEBUG"
)

type entry struct {
	Time    string `json:"time"`
	Level   Level  `json:"level"`
	Module  string `json:"module,omitempty"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Logger writes structured log lines to a single destination.
type Logger struct {
	out *log.Logger
}

func New() *Logger {
	return &Logger{out: log.New(os.Stdout, "", 0)}
}

var tokenPattern = regexp.MustCompile(`eyJ[A-Za-z0-9_.-]+`)

// Redact strips JWT-shaped tokens from a message.
func Redact(s string) string {
	return tokenPattern.ReplaceAllString(s, "[REDACTED_TOKEN]")
}

func (l *Logger) log(module string, level Level, msg string, err error) {
	e := entry{
		Time:    time.Now().Format(time.RFC3339),
		Level:   level,
		Module:  module,
		Message: Redact(msg),
	}
	if err != nil {
		e.Error = Redact(err.Error())
	}
	data, _ := json.Marshal(e)
	l.out.Println(string(data))
}

func (l *Logger) Info(module, msg string) {
	l.log(module, LevelInfo, msg, nil)
}

func (l *Logger) Debug(module, msg string) {
	l.log(module, LevelDebug, msg, nil)
}

func (l *Logger) Error(module, msg string, err error) {
	l.log(module, LevelError, msg, err)
}
