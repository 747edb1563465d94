package datalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ilkoid/taskcore/pkg/signal"
	"gopkg.in/yaml.v3"
)

func writeFile(path string, format Format, entries []Entry) error {
	var data []byte
	var err error
	switch format {
	case FormatYAML:
		data, err = yaml.Marshal(entries)
	case FormatRON:
		data = []byte(encodeRON(entries))
	default:
		data, err = json.MarshalIndent(entries, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// encodeRON renders entries in a small subset of Rust Object Notation: a
// bracketed list of parenthesized structs. There is no RON library in the
// ecosystem, so this hand-rolls just enough of the grammar to round-trip
// the Entry shape the Logger writes.
func encodeRON(entries []Entry) string {
	var b strings.Builder
	b.WriteString("[\n")
	for _, e := range entries {
		b.WriteString("    (time: ")
		ronString(&b, e.Time)
		b.WriteString(", name: ")
		ronString(&b, e.Name)
		b.WriteString(", value: ")
		ronValue(&b, e.Value)
		b.WriteString("),\n")
	}
	b.WriteString("]")
	return b.String()
}

func ronString(b *strings.Builder, s string) {
	b.WriteByte('"')
	b.WriteString(strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`).Replace(s))
	b.WriteByte('"')
}

func ronValue(b *strings.Builder, v signal.Value) {
	switch v.Kind {
	case signal.KindNull:
		b.WriteString("None")
	case signal.KindBool:
		b.WriteString(strconv.FormatBool(v.Bool))
	case signal.KindInt:
		b.WriteString(strconv.FormatInt(v.Int, 10))
	case signal.KindFloat:
		b.WriteString(strconv.FormatFloat(v.Float, 'g', -1, 64))
	case signal.KindText:
		ronString(b, v.Text)
	case signal.KindBytes:
		b.WriteString(fmt.Sprintf("(%d bytes)", len(v.Bytes)))
	case signal.KindArray:
		b.WriteByte('[')
		for i, e := range v.Array {
			if i > 0 {
				b.WriteString(", ")
			}
			ronValue(b, e)
		}
		b.WriteByte(']')
	case signal.KindMap:
		b.WriteByte('{')
		first := true
		for k, e := range v.Map {
			if !first {
				b.WriteString(", ")
			}
			first = false
			ronString(b, k)
			b.WriteString(": ")
			ronValue(b, e)
		}
		b.WriteByte('}')
	}
}

// parseRONEntries is a best-effort reader for the format encodeRON
// produces, used by the round-trip test and nothing else.
func parseRONEntries(data []byte) ([]Entry, error) {
	var entries []Entry
	lines := bytes.Split(data, []byte("\n"))
	for _, line := range lines {
		l := strings.TrimSpace(string(line))
		if !strings.HasPrefix(l, "(time:") {
			continue
		}
		l = strings.TrimSuffix(l, "),")
		l = strings.TrimSuffix(l, ")")
		e, err := parseRONEntry(l)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func parseRONEntry(l string) (Entry, error) {
	var e Entry
	parts := splitRONFields(l)
	for _, p := range parts {
		kv := strings.SplitN(p, ":", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.TrimSpace(kv[0])
		val := strings.TrimSpace(kv[1])
		switch key {
		case "time":
			e.Time = unquoteRON(val)
		case "name":
			e.Name = unquoteRON(val)
		case "value":
			e.Value = parseRONValue(val)
		}
	}
	return e, nil
}

func splitRONFields(l string) []string {
	var fields []string
	depth := 0
	inStr := false
	start := 0
	for i, r := range l {
		switch r {
		case '"':
			inStr = !inStr
		case '[', '{':
			if !inStr {
				depth++
			}
		case ']', '}':
			if !inStr {
				depth--
			}
		case ',':
			if depth == 0 && !inStr {
				fields = append(fields, l[start:i])
				start = i + 1
			}
		}
	}
	fields = append(fields, l[start:])
	return fields
}

func unquoteRON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	return strings.NewReplacer(`\"`, `"`, `\\`, `\`, `\n`, "\n").Replace(s)
}

func parseRONValue(s string) signal.Value {
	s = strings.TrimSpace(s)
	switch {
	case s == "None":
		return signal.Null()
	case s == "true" || s == "false":
		return signal.Bool(s == "true")
	case strings.HasPrefix(s, `"`):
		return signal.Text(unquoteRON(s))
	default:
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return signal.Int(i)
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return signal.Float(f)
		}
		return signal.Text(s)
	}
}
