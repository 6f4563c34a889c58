package scapolite

import (
	"strings"

	"gopkg.in/yaml.v2"
)

// Delimiter separates the structured metadata segment from narrative content.
// Scapolite documents are markdown with a yaml front block, so rule data sits
// between the first two markers.
const Delimiter = "---"

// Mapping is the ordered key-value structure parsed from one metadata segment.
// Aliased to yaml.MapSlice so document key order survives all the way into
// generated playbook tasks.
type Mapping = yaml.MapSlice

// ExtractMetadata isolates and parses the metadata segment of a raw scapolite
// document. Documents with no delimiter are assumed to be pure yaml.
// Decoding into a MapSlice rejects documents whose top level is not a mapping.
// TODO: switch to multi-document stream decoding to survive "---" occurring
// inside narrative content
func ExtractMetadata(data []byte) (Mapping, error) {
	content := string(data)
	segment := content
	if parts := strings.Split(content, Delimiter); len(parts) >= 3 {
		segment = parts[1]
	}
	var m Mapping
	if err := yaml.Unmarshal([]byte(segment), &m); err != nil {
		return nil, err
	}
	return m, nil
}

// value returns the entry stored under key, preserving absent vs nil distinction
func value(m Mapping, key interface{}) (interface{}, bool) {
	for _, item := range m {
		if item.Key == key {
			return item.Value, true
		}
	}
	return nil, false
}

// sequence is a lenient accessor for list-valued keys
// missing keys and shape mismatches simply yield an empty result
func sequence(m Mapping, key interface{}) []interface{} {
	if v, ok := value(m, key); ok {
		if s, ok := v.([]interface{}); ok {
			return s
		}
	}
	return nil
}

// set replaces the entry stored under key in place, appending when missing
func set(m Mapping, key, val interface{}) Mapping {
	for i, item := range m {
		if item.Key == key {
			m[i].Value = val
			return m
		}
	}
	return append(m, yaml.MapItem{Key: key, Value: val})
}
