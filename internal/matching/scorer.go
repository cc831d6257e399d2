package matching

import (
	"math"
	"time"

	"github.com/serendiblabs/mangala-backend/internal/profile"
)

// Weights of the final compatibility blend
const (
	profileWeight    = 0.3
	preferenceWeight = 0.4
	horoscopeWeight  = 0.2
	activityWeight   = 0.1

	premiumBonus = 5.0

	neutralHoroscopeScore = 50.0
	maxGunaMilanScore     = 36.0

	// A missing last-active timestamp is treated as this stale
	defaultStaleDays = 30
)

// moonSignCompatibility maps each moon sign (rashi) to the four signs
// traditionally held compatible with it.
var moonSignCompatibility = map[string][]string{
	"aries":       {"leo", "sagittarius", "gemini", "aquarius"},
	"taurus":      {"virgo", "capricorn", "cancer", "pisces"},
	"gemini":      {"libra", "aquarius", "aries", "leo"},
	"cancer":      {"scorpio", "pisces", "taurus", "virgo"},
	"leo":         {"aries", "sagittarius", "gemini", "libra"},
	"virgo":       {"taurus", "capricorn", "cancer", "scorpio"},
	"libra":       {"gemini", "aquarius", "leo", "sagittarius"},
	"scorpio":     {"cancer", "pisces", "virgo", "capricorn"},
	"sagittarius": {"aries", "leo", "libra", "aquarius"},
	"capricorn":   {"taurus", "virgo", "scorpio", "pisces"},
	"aquarius":    {"gemini", "libra", "aries", "sagittarius"},
	"pisces":      {"cancer", "scorpio", "taurus", "capricorn"},
}

// Requester bundles everything the scorer needs about the requesting
// user. Horoscope may be nil.
type Requester struct {
	Profile    *profile.Profile
	Preference *profile.Preference
	Horoscope  *profile.Horoscope
}

// Scorer computes compatibility sub-scores and the weighted total
type Scorer struct{}

func NewScorer() *Scorer {
	return &Scorer{}
}

// Score produces the full breakdown for one candidate
func (s *Scorer) Score(req *Requester, c *Candidate) *ScoreBreakdown {
	return s.scoreAt(req, c, time.Now())
}

func (s *Scorer) scoreAt(req *Requester, c *Candidate, now time.Time) *ScoreBreakdown {
	b := &ScoreBreakdown{
		ProfileScore:    req.Profile.CompatibilityScore(c.Profile),
		PreferenceScore: req.Preference.MatchScore(c.Profile),
		HoroscopeScore:  s.HoroscopeScore(req.Horoscope, c.Horoscope),
		ActivityScore:   s.activityScoreAt(c.Profile, now),
	}

	total := b.ProfileScore*profileWeight +
		b.PreferenceScore*preferenceWeight +
		b.HoroscopeScore*horoscopeWeight +
		b.ActivityScore*activityWeight

	if c.Profile.IsPremium {
		total += premiumBonus
	}

	// The premium bonus is deliberately applied after the weighted
	// blend with no upper clamp, so premium candidates near 100 can
	// exceed it.
	b.Total = round2(total)
	return b
}

// QuickScore is the profile-only score used when a like lazily
// creates a record without running the full blend.
func (s *Scorer) QuickScore(initiator, target *profile.Profile) float64 {
	if initiator == nil || target == nil {
		return 0
	}
	return round2(initiator.CompatibilityScore(target))
}

// HoroscopeScore returns a neutral 50 when either party lacks
// horoscope data. A precomputed Guna Milan score on the requester's
// side wins over the additive fallback.
func (s *Scorer) HoroscopeScore(requester, candidate *profile.Horoscope) float64 {
	if requester == nil || candidate == nil {
		return neutralHoroscopeScore
	}

	if requester.GunaMilanScore != nil {
		return clamp(float64(*requester.GunaMilanScore) / maxGunaMilanScore * 100)
	}

	score := 50.0

	if requester.ZodiacSign != "" && requester.ZodiacSign == candidate.ZodiacSign {
		score += 15
	}

	if compatible, ok := moonSignCompatibility[requester.MoonSign]; ok {
		for _, sign := range compatible {
			if sign == candidate.MoonSign {
				score += 20
				break
			}
		}
	}

	if requester.Manglik == candidate.Manglik {
		score += 15
	} else if requester.Manglik && !candidate.Manglik {
		score -= 20
	}

	if requester.Nakshatra != nil && candidate.Nakshatra != nil && *requester.Nakshatra == *candidate.Nakshatra {
		score += 10
	}

	return clamp(score)
}

// ActivityScore blends recency of activity with profile completeness
// and photo presence
func (s *Scorer) ActivityScore(p *profile.Profile) float64 {
	return s.activityScoreAt(p, time.Now())
}

func (s *Scorer) activityScoreAt(p *profile.Profile, now time.Time) float64 {
	staleDays := float64(defaultStaleDays)
	if p.LastActiveAt != nil {
		staleDays = now.Sub(*p.LastActiveAt).Hours() / 24
		if staleDays < 0 {
			staleDays = 0
		}
	}

	base := 100 - math.Min(staleDays*2, 50)

	score := base*0.6 + p.CompletionScore*0.3
	if p.ApprovedPhotoCount > 0 {
		score += 10
	}

	return clamp(score)
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
