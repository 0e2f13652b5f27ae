package cpt

import (
	"strings"
	"unicode"
)

// Options is the configuration payload handed to the host registration
// call. Keys follow the host's registration vocabulary ("public",
// "hierarchical", "show_in_rest", ...).
type Options map[string]interface{}

// Labels maps label slot names ("name", "singular_name", "add_new", ...)
// to display strings. Labels live inside Options under the "labels" key.
type Labels map[string]string

// Merge returns a new Options where values from over win and o fills the
// gaps. Neither input is modified.
func (o Options) Merge(over Options) Options {
	out := make(Options, len(o)+len(over))
	for k, v := range o {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// Clone returns a shallow copy.
func (o Options) Clone() Options {
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Merge returns a new Labels where values from over win.
func (l Labels) Merge(over Labels) Labels {
	out := make(Labels, len(l)+len(over))
	for k, v := range l {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// Labels extracts the labels slot, tolerating both Labels and plain map
// values (YAML decoding produces the latter). Hosts should use this
// instead of asserting on the concrete type.
func (o Options) Labels() Labels {
	return labelsOf(o)
}

func labelsOf(o Options) Labels {
	switch v := o["labels"].(type) {
	case Labels:
		return v
	case map[string]string:
		return Labels(v)
	case map[string]interface{}:
		out := make(Labels, len(v))
		for k, val := range v {
			if s, ok := val.(string); ok {
				out[k] = s
			}
		}
		return out
	default:
		return nil
	}
}

var separatorReplacer = strings.NewReplacer("_", " ", "-", " ")

// humanize turns an identifier like "publish_date" into "Publish date".
func humanize(id string) string {
	s := separatorReplacer.Replace(id)
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
