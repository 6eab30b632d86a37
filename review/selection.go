package review

import "slices"

// Sentiment identifies one of the three tag groups a patron sorts their
// experience into.
type Sentiment string

const (
	SentimentGood    Sentiment = "good"
	SentimentNeutral Sentiment = "neutral"
	SentimentBad     Sentiment = "bad"
)

// Selection holds the per-sentiment tag choices for one generation request,
// together with the explicit "nothing to report" flag per group. The value is
// request-local and discarded once the request completes.
//
// Invariants maintained by the mutators:
//   - a group flagged none has an empty tag list
//   - toggling a tag into a group clears that group's none flag
//   - setting none clears that group's tag list
//
// A tag id appearing in more than one group is tolerated as given: cross-group
// exclusivity is a presentation-level guarantee, and the intent behind an
// overlapping submission is ambiguous, so this layer neither dedupes nor
// rejects it.
type Selection struct {
	good    []string
	neutral []string
	bad     []string

	goodIsNone    bool
	neutralIsNone bool
	badIsNone     bool
}

// NewSelection builds a Selection from raw per-group tag lists and none
// flags, enforcing the invariants at construction time: any group flagged
// none is forced empty regardless of what was submitted.
func NewSelection(good, neutral, bad []string, goodIsNone, neutralIsNone, badIsNone bool) *Selection {
	s := &Selection{
		good:          slices.Clone(good),
		neutral:       slices.Clone(neutral),
		bad:           slices.Clone(bad),
		goodIsNone:    goodIsNone,
		neutralIsNone: neutralIsNone,
		badIsNone:     badIsNone,
	}
	if s.goodIsNone {
		s.good = nil
	}
	if s.neutralIsNone {
		s.neutral = nil
	}
	if s.badIsNone {
		s.bad = nil
	}
	return s
}

// Toggle adds or removes a tag in the given group. Adding a tag clears the
// group's none flag.
func (s *Selection) Toggle(group Sentiment, tagID string) {
	list := s.groupRef(group)
	if list == nil {
		return
	}
	if i := slices.Index(*list, tagID); i >= 0 {
		*list = slices.Delete(*list, i, i+1)
		return
	}
	*list = append(*list, tagID)
	s.setNoneFlag(group, false)
}

// SetNone marks a group as "nothing to report", clearing its tag list.
// Passing false only lowers the flag; tags must be re-toggled.
func (s *Selection) SetNone(group Sentiment, none bool) {
	s.setNoneFlag(group, none)
	if none {
		list := s.groupRef(group)
		if list != nil {
			*list = nil
		}
	}
}

// IsNone reports whether the group is flagged "nothing to report".
func (s *Selection) IsNone(group Sentiment) bool {
	switch group {
	case SentimentGood:
		return s.goodIsNone
	case SentimentNeutral:
		return s.neutralIsNone
	case SentimentBad:
		return s.badIsNone
	}
	return false
}

// Tags returns the submitted tag list for a group, before none-forcing.
func (s *Selection) Tags(group Sentiment) []string {
	if list := s.groupRef(group); list != nil {
		return slices.Clone(*list)
	}
	return nil
}

func (s *Selection) groupRef(group Sentiment) *[]string {
	switch group {
	case SentimentGood:
		return &s.good
	case SentimentNeutral:
		return &s.neutral
	case SentimentBad:
		return &s.bad
	}
	return nil
}

func (s *Selection) setNoneFlag(group Sentiment, v bool) {
	switch group {
	case SentimentGood:
		s.goodIsNone = v
	case SentimentNeutral:
		s.neutralIsNone = v
	case SentimentBad:
		s.badIsNone = v
	}
}

// EffectiveSelection is the per-group tag tuple after forcing empty any group
// flagged none. This is what prompt composition consumes.
type EffectiveSelection struct {
	Good    []string
	Neutral []string
	Bad     []string
}

// Total returns the effective selected tag count across all groups.
func (e EffectiveSelection) Total() int {
	return len(e.Good) + len(e.Neutral) + len(e.Bad)
}

// Effective resolves the selection into its effective tuple and validates it.
// It is the single hard gate preventing the backend from being asked to write
// about nothing: an effective total of zero yields ErrEmptySelection.
func (s *Selection) Effective() (EffectiveSelection, error) {
	eff := EffectiveSelection{}
	if !s.goodIsNone {
		eff.Good = slices.Clone(s.good)
	}
	if !s.neutralIsNone {
		eff.Neutral = slices.Clone(s.neutral)
	}
	if !s.badIsNone {
		eff.Bad = slices.Clone(s.bad)
	}
	if eff.Total() == 0 {
		return EffectiveSelection{}, ErrEmptySelection
	}
	return eff, nil
}
