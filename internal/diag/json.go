package diag

import (
	"bytes"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// JSONConsumer renders each Diagnostic as one line of newline-delimited
// JSON and streams it to w. Diagnostics are built field-by-field with
// sjson rather than encoding/json so that the wire shape can be patched
// (see PatchSourcePaths) without round-tripping through a Go struct.
type JSONConsumer struct {
	w   io.Writer
	err error
}

func NewJSONConsumer(w io.Writer) *JSONConsumer {
	return &JSONConsumer{w: w}
}

func (j *JSONConsumer) Consume(d Diagnostic) {
	if j.err != nil {
		return
	}
	line, err := marshalDiagnostic(d)
	if err != nil {
		j.err = err
		return
	}
	if _, err := j.w.Write(append(line, '\n')); err != nil {
		j.err = err
	}
}

// Err returns the first write or marshal error encountered, if any.
func (j *JSONConsumer) Err() error {
	return j.err
}

func marshalDiagnostic(d Diagnostic) ([]byte, error) {
	var buf []byte
	var err error
	buf, err = sjson.SetBytes(buf, "category", d.Category)
	if err != nil {
		return nil, err
	}
	buf, err = sjson.SetBytes(buf, "name", d.Name)
	if err != nil {
		return nil, err
	}
	buf, err = sjson.SetBytes(buf, "severity", severityString(d.Severity))
	if err != nil {
		return nil, err
	}
	if d.Message != "" {
		buf, err = sjson.SetBytes(buf, "message", d.Message)
		if err != nil {
			return nil, err
		}
	}
	for i, r := range d.Ranges {
		path := fmt.Sprintf("ranges.%d", i)
		buf, err = sjson.SetBytes(buf, path+".file", r.File)
		if err != nil {
			return nil, err
		}
		buf, err = sjson.SetBytes(buf, path+".begin.line", r.Begin.Line)
		if err != nil {
			return nil, err
		}
		buf, err = sjson.SetBytes(buf, path+".begin.column", r.Begin.Column)
		if err != nil {
			return nil, err
		}
		buf, err = sjson.SetBytes(buf, path+".end.line", r.End.Line)
		if err != nil {
			return nil, err
		}
		buf, err = sjson.SetBytes(buf, path+".end.column", r.End.Column)
		if err != nil {
			return nil, err
		}
	}
	for k, v := range d.Payload {
		buf, err = sjson.SetBytes(buf, "payload."+k, v)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

func severityString(s Severity) string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// FilterLines scans a newline-delimited JSON diagnostic stream (as written
// by JSONConsumer) and returns the lines whose "category" field equals
// category.
func FilterLines(stream []byte, category string) [][]byte {
	var out [][]byte
	for _, line := range bytes.Split(stream, []byte{'\n'}) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if gjson.GetBytes(line, "category").String() == category {
			out = append(out, line)
		}
	}
	return out
}

// PatchSourcePaths rewrites every "ranges.*.file" field of a single
// rendered diagnostic line, used to relocate paths recorded at compile
// time (e.g. a temp-directory path) to their final on-disk location
// before a diagnostic is displayed or archived.
func PatchSourcePaths(line []byte, rewrite func(path string) string) ([]byte, error) {
	ranges := gjson.GetBytes(line, "ranges")
	if !ranges.IsArray() {
		return line, nil
	}
	out := line
	var err error
	for i, r := range ranges.Array() {
		newPath := rewrite(r.Get("file").String())
		out, err = sjson.SetBytes(out, fmt.Sprintf("ranges.%d.file", i), newPath)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
