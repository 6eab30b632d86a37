package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSelection_NoneForcesGroupEmpty(t *testing.T) {
	// Tags submitted alongside a raised none flag are discarded at
	// construction, for every group independently.
	s := NewSelection(
		[]string{"tag-good-1"},
		[]string{"tag-neutral-1"},
		[]string{"tag-bad-1", "tag-bad-2"},
		true, false, true,
	)

	assert.Empty(t, s.Tags(SentimentGood))
	assert.Equal(t, []string{"tag-neutral-1"}, s.Tags(SentimentNeutral))
	assert.Empty(t, s.Tags(SentimentBad))

	eff, err := s.Effective()
	require.NoError(t, err)
	assert.Equal(t, 1, eff.Total())
	assert.Equal(t, []string{"tag-neutral-1"}, eff.Neutral)
}

func TestSelection_Effective_EmptyRejected(t *testing.T) {
	tests := []struct {
		name string
		sel  *Selection
	}{
		{
			name: "nothing submitted",
			sel:  NewSelection(nil, nil, nil, false, false, false),
		},
		{
			name: "all groups flagged none",
			sel:  NewSelection(nil, nil, nil, true, true, true),
		},
		{
			name: "every submitted tag erased by none flags",
			sel: NewSelection(
				[]string{"a"}, []string{"b"}, []string{"c"},
				true, true, true,
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.sel.Effective()
			assert.ErrorIs(t, err, ErrEmptySelection)
		})
	}
}

func TestSelection_Effective_SingleTagSuffices(t *testing.T) {
	s := NewSelection(nil, nil, []string{"slow-service"}, true, true, false)

	eff, err := s.Effective()
	require.NoError(t, err)
	assert.Equal(t, 1, eff.Total())
	assert.Empty(t, eff.Good)
	assert.Empty(t, eff.Neutral)
	assert.Equal(t, []string{"slow-service"}, eff.Bad)
}

func TestSelection_Toggle(t *testing.T) {
	s := NewSelection(nil, nil, nil, false, false, false)

	s.Toggle(SentimentGood, "tasty")
	assert.Equal(t, []string{"tasty"}, s.Tags(SentimentGood))

	// Toggling the same tag again removes it.
	s.Toggle(SentimentGood, "tasty")
	assert.Empty(t, s.Tags(SentimentGood))

	// Removal does not raise the none flag; the group is just empty.
	assert.False(t, s.IsNone(SentimentGood))
}

func TestSelection_ToggleClearsNoneFlag(t *testing.T) {
	s := NewSelection(nil, nil, nil, false, true, false)
	require.True(t, s.IsNone(SentimentNeutral))

	s.Toggle(SentimentNeutral, "average-portions")

	assert.False(t, s.IsNone(SentimentNeutral))
	assert.Equal(t, []string{"average-portions"}, s.Tags(SentimentNeutral))
}

func TestSelection_SetNoneClearsTags(t *testing.T) {
	s := NewSelection([]string{"a", "b"}, nil, nil, false, false, false)

	s.SetNone(SentimentGood, true)

	assert.True(t, s.IsNone(SentimentGood))
	assert.Empty(t, s.Tags(SentimentGood))

	// Lowering the flag does not resurrect the cleared tags.
	s.SetNone(SentimentGood, false)
	assert.False(t, s.IsNone(SentimentGood))
	assert.Empty(t, s.Tags(SentimentGood))
}

func TestSelection_CrossGroupOverlapTolerated(t *testing.T) {
	// The same tag id in two groups passes through unchanged; this layer
	// neither dedupes nor rejects an ambiguous submission.
	s := NewSelection([]string{"atmosphere"}, nil, []string{"atmosphere"}, false, false, false)

	eff, err := s.Effective()
	require.NoError(t, err)
	assert.Equal(t, 2, eff.Total())
	assert.Equal(t, []string{"atmosphere"}, eff.Good)
	assert.Equal(t, []string{"atmosphere"}, eff.Bad)
}

func TestSelection_EffectiveIsACopy(t *testing.T) {
	s := NewSelection([]string{"a"}, nil, nil, false, false, false)

	eff, err := s.Effective()
	require.NoError(t, err)

	eff.Good[0] = "mutated"
	eff2, err := s.Effective()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, eff2.Good)
}
