package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// CtlLogger writes the float values of logMap as one CSV row per call to Log, columns
// in Header order.
type CtlLogger struct {
	f      *os.File
	logMap map[string]interface{}
	Header []string
	fmt    string
	vals   []interface{}
}

func NewCtlLogger(fn string, logMap map[string]interface{}, header ...string) (l *CtlLogger, err error) {
	l = &CtlLogger{logMap: logMap, Header: header}
	if l.f, err = os.Create(fn); err != nil {
		return nil, errors.Wrapf(err, "sim: cannot create log %s", fn)
	}

	fmt.Fprint(l.f, strings.Join(l.Header, ","), "\n")
	s := strings.Repeat("%f,", len(l.Header))
	l.fmt = strings.Join([]string{s[:len(s)-1], "\n"}, "")
	l.vals = make([]interface{}, len(l.Header))
	return l, nil
}

func (l *CtlLogger) Log() {
	for i, k := range l.Header {
		l.vals[i] = l.logMap[k]
	}
	fmt.Fprintf(l.f, l.fmt, l.vals...)
}

func (l *CtlLogger) Close() error {
	return l.f.Close()
}
