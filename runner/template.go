package runner

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/valyala/fasttemplate"
)

const (
	startTag = "{{"
	endTag   = "}}"
)

// Vars binds template tags to values. A value is a string or a []string.
type Vars map[string]interface{}

// Render expands an argv template. An element consisting of a single tag
// bound to a []string becomes one argument per item (none for an empty
// list); any other element renders to exactly one argument. Unknown tags are
// an error.
func Render(argv []string, vars Vars) ([]string, error) {
	out := make([]string, 0, len(argv))
	for _, elem := range argv {
		if tag, ok := soleTag(elem); ok {
			if list, isList := vars[tag].([]string); isList {
				out = append(out, list...)
				continue
			}
		}

		t, err := fasttemplate.NewTemplate(elem, startTag, endTag)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing argument template %q", elem)
		}
		s, err := t.ExecuteFuncStringWithErr(func(w io.Writer, tag string) (int, error) {
			v, ok := vars[strings.TrimSpace(tag)]
			if !ok {
				return 0, errors.Errorf("unknown template tag %q", tag)
			}
			switch v := v.(type) {
			case string:
				return io.WriteString(w, v)
			case []string:
				return io.WriteString(w, strings.Join(v, " "))
			default:
				return fmt.Fprint(w, v)
			}
		})
		if err != nil {
			return nil, errors.Wrapf(err, "rendering %q", elem)
		}
		out = append(out, s)
	}
	return out, nil
}

func soleTag(elem string) (string, bool) {
	if !strings.HasPrefix(elem, startTag) || !strings.HasSuffix(elem, endTag) {
		return "", false
	}
	if strings.Count(elem, startTag) != 1 {
		return "", false
	}
	return strings.TrimSpace(elem[len(startTag) : len(elem)-len(endTag)]), true
}

// Repeat returns flag v1 flag v2 ... for flags that must be given once per value.
func Repeat(flag string, values []string) []string {
	out := make([]string, 0, 2*len(values))
	for _, v := range values {
		out = append(out, flag, v)
	}
	return out
}
