package classifier

import (
	"regexp"
	"strings"

	"financial-query-pipeline/internal/intent"
)

// classifyFallback is the deterministic pattern path. It never fails:
// queries nothing matches land on the strategy-recommendation default.
func classifyFallback(text string) intent.Classification {
	lowered := strings.ToLower(text)
	slots := extractSlots(lowered, text)

	r, strength := matchRule(lowered)

	confidence := r.floor
	if strength > 1 {
		confidence += perIndicatorBoost * float64(strength-1)
	}
	for _, name := range r.slots {
		if _, ok := slots[name]; ok {
			confidence += perSlotBoost
		}
	}
	confidence = clamp(confidence, r.floor, r.cap)

	return intent.Classification{
		Intent:        r.intent,
		Confidence:    confidence,
		Slots:         slots,
		UsedFallback:  true,
		ModelUsed:     PatternModelName,
		OriginalInput: text,
	}
}

// matchRule walks the ordered rule table and returns the first rule with a
// matched indicator plus its pattern strength. Runway-vs-burn is resolved
// by what the query explicitly asks for, not by indicator counting.
func matchRule(lowered string) (rule, int) {
	if strings.Contains(lowered, "runway") && strings.Contains(lowered, "burn") {
		asksBurn := asksBurnRe.MatchString(lowered)
		asksRunway := asksRunwayRe.MatchString(lowered)
		if asksBurn && !asksRunway {
			r := ruleFor(intent.BurnRateCalculation)
			return r, countMatches(lowered, r)
		}
		// Incidental burn mentions lose to the runway question.
		r := ruleFor(intent.RunwayCalculation)
		return r, countMatches(lowered, r)
	}

	for _, r := range rules {
		if n := countMatches(lowered, r); n > 0 {
			return r, n
		}
	}
	return defaultRule, 0
}

func countMatches(lowered string, r rule) int {
	n := 0
	for _, ind := range r.indicators {
		if strings.Contains(lowered, ind) {
			n++
		}
	}
	return n
}

func ruleFor(i intent.Intent) rule {
	for _, r := range rules {
		if r.intent == i {
			return r
		}
	}
	return defaultRule
}

// An explicit ask ("what is our burn", "calculate runway") beats an
// incidental figure statement ("burn is $50,000") for the same topic.
const askVerb = `(?:what(?:'s|’s| is| are)?|calculate|compute|show me|tell me|give me|how much is|how much are|how long is)` +
	`\s+(?:our|the|my)?\s*(?:current\s+|monthly\s+)?`

var (
	asksBurnRe   = regexp.MustCompile(askVerb + `burn(?:\s*rate)?`)
	asksRunwayRe = regexp.MustCompile(askVerb + `runway`)
)

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
