package review

// Persona attributes are advisory inputs to prompt composition. They carry no
// invariants beyond enum membership and are never required.

// Gender of the reviewer, if volunteered.
type Gender string

const (
	GenderUnspecified Gender = ""
	GenderMale        Gender = "male"
	GenderFemale      Gender = "female"
	GenderOther       Gender = "other"
)

// AgeBand is the reviewer's age decade, if volunteered.
type AgeBand string

const (
	AgeBandUnspecified AgeBand = ""
	AgeBand10s         AgeBand = "10s"
	AgeBand20s         AgeBand = "20s"
	AgeBand30s         AgeBand = "30s"
	AgeBand40s         AgeBand = "40s"
	AgeBand50s         AgeBand = "50s"
	AgeBand60sPlus     AgeBand = "60s+"
)

// VisitFrequency hints how familiar the reviewer is with the place.
type VisitFrequency string

const (
	VisitUnspecified VisitFrequency = ""
	VisitFirstTime   VisitFrequency = "first"
	VisitOccasional  VisitFrequency = "occasional"
	VisitRegular     VisitFrequency = "regular"
)

// Persona bundles the optional reviewer attributes.
type Persona struct {
	Gender         Gender
	AgeBand        AgeBand
	VisitFrequency VisitFrequency
}

// IsZero reports whether no attribute was volunteered.
func (p Persona) IsZero() bool {
	return p.Gender == GenderUnspecified && p.AgeBand == AgeBandUnspecified && p.VisitFrequency == VisitUnspecified
}

// Valid reports whether every set attribute is a known enum member.
func (p Persona) Valid() bool {
	switch p.Gender {
	case GenderUnspecified, GenderMale, GenderFemale, GenderOther:
	default:
		return false
	}
	switch p.AgeBand {
	case AgeBandUnspecified, AgeBand10s, AgeBand20s, AgeBand30s, AgeBand40s, AgeBand50s, AgeBand60sPlus:
	default:
		return false
	}
	switch p.VisitFrequency {
	case VisitUnspecified, VisitFirstTime, VisitOccasional, VisitRegular:
	default:
		return false
	}
	return true
}
