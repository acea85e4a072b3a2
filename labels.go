package radarly

import (
	"strconv"
	"strings"

	"github.com/linkfluence/radarly-go/pkg/types"
)

// focusAliasPrefix is the legacy alias prefix the API sometimes prepends to
// focus keys in analytics payloads. Lookup keys are normalized by stripping
// it at the boundary, rather than aliasing inside the lookup itself.
const focusAliasPrefix = "focus_"

// NormalizeFocusKey strips the legacy focus alias prefix from a lookup key.
func NormalizeFocusKey(key string) string {
	return strings.TrimPrefix(key, focusAliasPrefix)
}

// LabelIndex translates entity IDs to their human-readable labels. Lookup
// keys are normalized first; unknown keys echo back unchanged so callers can
// still render raw IDs when no label exists.
type LabelIndex map[string]string

// Lookup resolves a key to its label.
func (idx LabelIndex) Lookup(key string) string {
	normalized := NormalizeFocusKey(key)
	if label, ok := idx[normalized]; ok {
		return label
	}
	return normalized
}

// FocusLabels builds a LabelIndex mapping a project's focus IDs to their
// labels.
func FocusLabels(project *types.Project) LabelIndex {
	if project == nil {
		return LabelIndex{}
	}

	idx := make(LabelIndex, len(project.Focuses))
	for _, focus := range project.Focuses {
		idx[strconv.FormatInt(focus.ID, 10)] = focus.Label
	}
	return idx
}

// TagLabels builds a LabelIndex mapping subtag IDs to their values across
// every tag of a project.
func TagLabels(project *types.Project) LabelIndex {
	if project == nil {
		return LabelIndex{}
	}

	idx := make(LabelIndex)
	for _, tag := range project.Tags {
		for _, subtag := range tag.Subtags {
			idx[strconv.FormatInt(subtag.ID, 10)] = subtag.Value
		}
	}
	return idx
}
