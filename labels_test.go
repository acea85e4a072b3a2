package radarly

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/linkfluence/radarly-go/pkg/types"
)

func TestNormalizeFocusKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "123", NormalizeFocusKey("focus_123"))
	assert.Equal(t, "123", NormalizeFocusKey("123"))
	// Only a leading prefix is stripped.
	assert.Equal(t, "my_focus_123", NormalizeFocusKey("my_focus_123"))
}

func TestLabelIndex_Lookup(t *testing.T) {
	t.Parallel()

	idx := LabelIndex{"12": "espresso", "34": "filter"}

	assert.Equal(t, "espresso", idx.Lookup("12"))
	assert.Equal(t, "espresso", idx.Lookup("focus_12"))
	// Unknown keys echo back normalized, so raw IDs still render.
	assert.Equal(t, "99", idx.Lookup("focus_99"))
	assert.Equal(t, "99", idx.Lookup("99"))
}

func TestFocusLabels(t *testing.T) {
	t.Parallel()

	project := &types.Project{
		Focuses: []types.Focus{
			{ID: 12, Label: "espresso"},
			{ID: 34, Label: "filter"},
		},
	}

	idx := FocusLabels(project)
	assert.Len(t, idx, 2)
	assert.Equal(t, "espresso", idx.Lookup("focus_12"))
	assert.Equal(t, "filter", idx.Lookup("34"))

	assert.Empty(t, FocusLabels(nil))
}

func TestTagLabels(t *testing.T) {
	t.Parallel()

	project := &types.Project{
		Tags: []types.Tag{
			{
				ID:    1,
				Value: "channel",
				Subtags: []types.Subtag{
					{ID: 71, Value: "owned"},
					{ID: 72, Value: "earned"},
				},
			},
			{
				ID:      2,
				Value:   "market",
				Subtags: []types.Subtag{{ID: 80, Value: "emea"}},
			},
		},
	}

	idx := TagLabels(project)
	assert.Len(t, idx, 3)
	assert.Equal(t, "owned", idx.Lookup("71"))
	assert.Equal(t, "emea", idx.Lookup("80"))

	assert.Empty(t, TagLabels(nil))
}
