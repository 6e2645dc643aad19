// Package logging holds the console formatter used outside debug mode.
package logging

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// BulletFormatter formats log entries as hierarchical bullets, the way Xcode
// shows them in the build log for a Run Script phase.
//
// Entries with an "action" field produce top-level bullets:
//
//	  * examining executable
//
// Info-level entries without "action" produce sub-bullets:
//
//	    * Copied /opt/homebrew/lib/libpng16.16.dylib
//
// Warn-level entries produce warning sub-bullets:
//
//	    ! some warning
//
// Error-level entries produce error bullets:
//
//	  x something failed
//
// Key-value fields (excluding "action") are appended as key=value pairs.
type BulletFormatter struct{}

func (f *BulletFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var buf bytes.Buffer

	var prefix string
	skip := []string{}
	if action, ok := entry.Data["action"]; ok {
		fmt.Fprintf(&buf, "  * %s", action)
		skip = append(skip, "action")
	} else {
		switch entry.Level {
		case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
			prefix = "  x "
		case logrus.WarnLevel:
			prefix = "    ! "
		case logrus.InfoLevel:
			prefix = "    * "
		default:
			// debug output normally goes through TextFormatter
			prefix = "      "
		}
		buf.WriteString(prefix)
		buf.WriteString(entry.Message)
	}

	buf.WriteString(formatFields(entry.Data, skip...))
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// formatFields returns a formatted string of key=value pairs, excluding
// the specified skip keys. Returns empty string if no fields remain.
func formatFields(fields logrus.Fields, skip ...string) string {
	skipSet := make(map[string]bool, len(skip))
	for _, s := range skip {
		skipSet[s] = true
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		if !skipSet[k] {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}

	return "  " + strings.Join(parts, " ")
}
