package mapping

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// routeCreator builds from the first candidate whose patterns accept the
// param values, e.g. a non-numeric id skips "/orders/{id:[0-9]+}" in favour
// of the conventional "/{controller}/{action}/{id}".
type routeCreator struct {
	candidates []candidate
}

// CreateURL implements URLCreator.
func (c *routeCreator) CreateURL(controller, action string, params map[string]any, charset, fragment string) (string, error) {
	enc := encoderFor(charset)

	var lastErr error
	for _, cand := range c.candidates {
		u, err := cand.build(enc, controller, action, params, fragment)
		if err == nil {
			return u, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no route to build a URL for %s.%s", controller, action)
	}
	return "", lastErr
}

func (c candidate) build(enc *encoding.Encoder, controller, action string, params map[string]any, fragment string) (string, error) {
	used := make(map[string]bool, len(c.vars))
	pairs := make([]string, 0, 2*len(c.vars))
	for _, name := range c.vars {
		var value string
		switch name {
		case ControllerVar:
			value = controller
		case ActionVar:
			value = action
		default:
			if values := formatValues(params[name]); len(values) > 0 {
				value = values[0]
			}
		}
		used[name] = true
		pairs = append(pairs, name, transcode(enc, value))
	}

	u, err := c.route.URLPath(pairs...)
	if err != nil {
		return "", fmt.Errorf("failed to build URL from route %q: %w", c.route.GetName(), err)
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		if used[k] || k == ControllerVar || k == ActionVar {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	query := url.Values{}
	for _, k := range keys {
		for _, v := range formatValues(params[k]) {
			query.Add(transcode(enc, k), transcode(enc, v))
		}
	}
	u.RawQuery = query.Encode()

	if fragment != "" {
		u.Fragment = transcode(enc, fragment)
	}

	return u.String(), nil
}

// formatValues renders a param value; slices become one value per element.
func formatValues(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return []string{val}
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if item != nil {
				out = append(out, fmt.Sprint(item))
			}
		}
		return out
	case fmt.Stringer:
		return []string{val.String()}
	default:
		return []string{fmt.Sprint(val)}
	}
}

// encoderFor returns nil for UTF-8 and for encodings the index does not
// know, in which case values are escaped as UTF-8.
func encoderFor(charset string) *encoding.Encoder {
	if charset == "" {
		return nil
	}
	enc, err := htmlindex.Get(strings.TrimSpace(charset))
	if err != nil {
		return nil
	}
	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		return nil
	}
	return encoding.ReplaceUnsupported(enc.NewEncoder())
}

func transcode(enc *encoding.Encoder, s string) string {
	if enc == nil || s == "" {
		return s
	}
	out, err := enc.String(s)
	if err != nil {
		return s
	}
	return out
}
