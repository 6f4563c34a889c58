package scapolite

// ScapoliteKey marks the nested block holding the base rule record
const ScapoliteKey = "scapolite"

// MergeRule flattens a rule document into a single record. When a scapolite
// block is present its content becomes the base and every sibling key is
// overlaid on top, siblings winning on collision. Collision is resolved at the
// top level only, nested values are never merged recursively. Documents
// without the block pass through unchanged.
func MergeRule(m Mapping) Mapping {
	v, ok := value(m, ScapoliteKey)
	if !ok {
		return m
	}
	base, ok := v.(Mapping)
	if !ok {
		// malformed block, treat as a regular key
		return m
	}
	merged := append(Mapping{}, base...)
	for _, item := range m {
		if item.Key == ScapoliteKey {
			continue
		}
		merged = set(merged, item.Key, item.Value)
	}
	return merged
}
