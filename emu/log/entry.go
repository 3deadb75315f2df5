package log

import (
	"fmt"

	"gopkg.in/Sirupsen/logrus.v0"
)

// Level mirrors logrus severity ordering (lower is more severe).
type Level uint8

const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
)

var disabled bool

// Disable turns off all logging, including warnings and errors.
func Disable() {
	disabled = true
}

func init() {
	logrus.SetLevel(logrus.DebugLevel)
}

// EntryZ is a log entry under construction. A nil *EntryZ (returned when the
// entry's module/level combination is filtered out) accepts the whole field
// API as no-ops, so callsites pay almost nothing when disabled.
type EntryZ struct {
	mod    Module
	lvl    Level
	msg    string
	fields [8]field
	nf     int
}

type field struct {
	key string
	val string
}

func newEntryZ(mod Module, lvl Level, msg string) *EntryZ {
	return &EntryZ{mod: mod, lvl: lvl, msg: msg}
}

func (e *EntryZ) add(key, val string) *EntryZ {
	if e == nil || e.nf == len(e.fields) {
		return e
	}
	e.fields[e.nf] = field{key: key, val: val}
	e.nf++
	return e
}

func (e *EntryZ) Bool(key string, v bool) *EntryZ {
	return e.add(key, fmt.Sprintf("%t", v))
}

func (e *EntryZ) String(key, v string) *EntryZ {
	return e.add(key, v)
}

func (e *EntryZ) Int(key string, v int64) *EntryZ {
	return e.add(key, fmt.Sprintf("%d", v))
}

func (e *EntryZ) Uint(key string, v uint64) *EntryZ {
	return e.add(key, fmt.Sprintf("%d", v))
}

func (e *EntryZ) Hex8(key string, v uint8) *EntryZ {
	return e.add(key, fmt.Sprintf("%02x", v))
}

func (e *EntryZ) Hex16(key string, v uint16) *EntryZ {
	return e.add(key, fmt.Sprintf("%04x", v))
}

func (e *EntryZ) Error(key string, err error) *EntryZ {
	if err == nil {
		return e.add(key, "<nil>")
	}
	return e.add(key, err.Error())
}

func (e *EntryZ) Stringer(key string, v fmt.Stringer) *EntryZ {
	return e.add(key, v.String())
}

// End emits the entry.
func (e *EntryZ) End() {
	if e == nil {
		return
	}

	fields := make(logrus.Fields, e.nf+1)
	fields["_mod"] = e.mod.String()
	for _, f := range e.fields[:e.nf] {
		fields[f.key] = f.val
	}

	entry := logrus.StandardLogger().WithFields(fields)
	switch e.lvl {
	case DebugLevel:
		entry.Debug(e.msg)
	case InfoLevel:
		entry.Info(e.msg)
	case WarnLevel:
		entry.Warn(e.msg)
	case ErrorLevel:
		entry.Error(e.msg)
	case FatalLevel:
		entry.Fatal(e.msg)
	case PanicLevel:
		entry.Panic(e.msg)
	}
}

func (mod Module) logf(lvl Level, format string, args ...any) {
	if !mod.Enabled(lvl) {
		return
	}
	entry := logrus.StandardLogger().WithField("_mod", mod.String())
	switch lvl {
	case DebugLevel:
		entry.Debugf(format, args...)
	case InfoLevel:
		entry.Infof(format, args...)
	case WarnLevel:
		entry.Warnf(format, args...)
	case ErrorLevel:
		entry.Errorf(format, args...)
	case FatalLevel:
		entry.Fatalf(format, args...)
	case PanicLevel:
		entry.Panicf(format, args...)
	}
}
