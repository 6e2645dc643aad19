package buildnum

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"howett.net/plist"
)

// Info.plist keys
const (
	ShortVersionKey  = "CFBundleShortVersionString"
	BundleVersionKey = "CFBundleVersion"
)

// ErrPlistMissing is returned by UpdatePlist when the plist does not exist.
var ErrPlistMissing = errors.New("plist does not exist")

// UpdatePlist writes v into the plist at path. The file keeps its on-disk
// format (XML, binary or OpenStep) and every other key. XML plists that
// already carry both keys are edited in place so key order and layout stay
// as they were; anything else is re-encoded with sorted keys.
func UpdatePlist(path string, v Version) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", path, ErrPlistMissing)
	}
	if err != nil {
		return fmt.Errorf("failed to access %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var dict map[string]interface{}
	format, err := plist.Unmarshal(data, &dict)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if dict == nil {
		dict = make(map[string]interface{})
	}

	build := strconv.Itoa(v.Build)
	dict[ShortVersionKey] = v.Version
	dict[BundleVersionKey] = build

	var out []byte
	if format == plist.XMLFormat {
		edited, ok := replaceXMLStrings(data, map[string]string{ShortVersionKey: v.Version, BundleVersionKey: build})
		if ok {
			out = edited
		} else {
			out, err = plist.MarshalIndent(dict, format, "\t")
		}
	} else {
		out, err = plist.Marshal(dict, format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadPlistVersion returns the version recorded in the plist at path.
func ReadPlistVersion(path string) (Version, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Version{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var info struct {
		ShortVersion string `plist:"CFBundleShortVersionString"`
		Build        string `plist:"CFBundleVersion"`
	}
	if _, err := plist.Unmarshal(data, &info); err != nil {
		return Version{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	build, err := strconv.Atoi(info.Build)
	if err != nil {
		return Version{}, fmt.Errorf("%s: CFBundleVersion %q is not a build number", path, info.Build)
	}
	return Version{Version: info.ShortVersion, Build: build}, nil
}

// replaceXMLStrings sets the <string> value following each top-level <key> in
// an XML plist. It reports false when any key is missing.
func replaceXMLStrings(data []byte, values map[string]string) ([]byte, bool) {
	for key, value := range values {
		re := regexp.MustCompile(`(<key>` + regexp.QuoteMeta(key) + `</key>\s*<string>)[^<]*(</string>)`)
		loc := re.FindSubmatchIndex(data)
		if loc == nil {
			return nil, false
		}
		var escaped bytes.Buffer
		if err := xml.EscapeText(&escaped, []byte(value)); err != nil {
			return nil, false
		}
		out := make([]byte, 0, len(data)+escaped.Len())
		out = append(out, data[:loc[3]]...)
		out = append(out, escaped.Bytes()...)
		out = append(out, data[loc[4]:]...)
		data = out
	}
	return data, true
}
