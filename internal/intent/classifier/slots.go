package classifier

import (
	"regexp"
	"strconv"
	"strings"

	"financial-query-pipeline/internal/intent"
)

// Amount grammar: optional currency marker, digits with optional thousands
// separators, and a k/thousand multiplier that only counts when attached to
// the matched number itself. Keeping the multiplier inside the same capture
// is what stops "12 months" from being read as a $12k amount.
const (
	curMark   = `(?:\$|usd\s*|inr\s*|₹)`
	numBody   = `([0-9][0-9,]*(?:\.[0-9]+)?)`
	kSuffix   = `(k\b|\s?thousand\b)?`
	connector = `\s*(?:is|was|of|to|:|=|at|around|about|roughly)?\s*(?:about|around|roughly)?\s*`
)

var (
	cashRe        = regexp.MustCompile(`(?:cash(?:\s+balance)?|bank\s+balance)` + connector + `(` + curMark + `)?\s*` + numBody + kSuffix)
	cashReverseRe = regexp.MustCompile(`(` + curMark + `)\s*` + numBody + kSuffix + `\s*(?:in\s+)?(?:cash|the\s+bank)`)

	burnRe = regexp.MustCompile(`burn(?:\s*rate)?` + connector + `(` + curMark + `)?\s*` + numBody + kSuffix)

	runwayOfRe = regexp.MustCompile(numBody + `\s*months?\s+(?:of\s+)?runway`)
	runwayIsRe = regexp.MustCompile(`runway` + connector + numBody + `\s*months?`)

	growthPctRe = regexp.MustCompile(numBody + `\s*%\s*(?:monthly\s+|annual\s+)?(?:revenue\s+)?growth`)
	growthAtRe  = regexp.MustCompile(`grow(?:ing|th)?\s*(?:rate)?\s*(?:is|at|by|of)?\s*` + numBody + `\s*%`)

	revenueRe = regexp.MustCompile(`revenue` + connector + `(` + curMark + `)?\s*` + numBody + kSuffix)

	horizonRe = regexp.MustCompile(`(?:next|over\s+the\s+next|for\s+the\s+next|in|over|for)\s+([0-9]+)\s+months?`)

	hireVerbRe = regexp.MustCompile(`hir(?:e|ing)\s+([0-9]+)`)
	hireNounRe = regexp.MustCompile(`([0-9]+)\s+(?:new\s+)?(?:engineers?|hires?|salespeople|sales\s+reps?|employees|people|heads)`)

	salaryRe     = regexp.MustCompile(`(?:salar(?:y|ies)|comp(?:ensation)?)` + connector + `(` + curMark + `)?\s*` + numBody + kSuffix)
	salaryEachRe = regexp.MustCompile(`(?:each\s+)?at\s*(` + curMark + `)\s*` + numBody + kSuffix + `\s*(?:a\s+year|per\s+year|annually|/yr)?`)
)

const slotMatchConfidence = 0.9

// extractSlots runs every extractor over the query. Extractors are
// independent; unmatched slots are simply absent.
func extractSlots(lowered, original string) map[string]intent.Slot {
	slots := make(map[string]intent.Slot)

	if s, ok := extractMoney(lowered, original, cashRe, 2); ok {
		slots[intent.SlotCash] = s
	} else if s, ok := extractMoney(lowered, original, cashReverseRe, 2); ok {
		slots[intent.SlotCash] = s
	}

	if s, ok := extractMoney(lowered, original, burnRe, 2); ok {
		slots[intent.SlotBurnRate] = s
	}

	if s, ok := extractNumber(lowered, runwayOfRe, "months"); ok {
		slots[intent.SlotRunwayMonths] = s
	} else if s, ok := extractNumber(lowered, runwayIsRe, "months"); ok {
		slots[intent.SlotRunwayMonths] = s
	}

	if s, ok := extractNumber(lowered, growthPctRe, "percent"); ok {
		slots[intent.SlotRevenueGrowth] = s
	} else if s, ok := extractNumber(lowered, growthAtRe, "percent"); ok {
		slots[intent.SlotRevenueGrowth] = s
	}

	// "revenue growth at 20%" must not also be read as a base-revenue
	// amount of 20; only look for a base amount when no growth slot fired,
	// or when the query names revenue with its own figure.
	if _, hasGrowth := slots[intent.SlotRevenueGrowth]; !hasGrowth || strings.Contains(lowered, "revenue of") || strings.Contains(lowered, "revenue is") {
		if s, ok := extractMoney(lowered, original, revenueRe, 2); ok {
			slots[intent.SlotBaseRevenue] = s
		}
	}

	if s, ok := extractNumber(lowered, horizonRe, "months"); ok {
		slots[intent.SlotHorizonMonths] = s
	}

	if s, ok := extractNumber(lowered, hireVerbRe, "count"); ok {
		slots[intent.SlotHireCount] = s
	} else if s, ok := extractNumber(lowered, hireNounRe, "count"); ok {
		slots[intent.SlotHireCount] = s
	}

	if s, ok := extractMoney(lowered, original, salaryRe, 2); ok {
		slots[intent.SlotAnnualSalary] = s
	} else if s, ok := extractMoney(lowered, original, salaryEachRe, 2); ok {
		slots[intent.SlotAnnualSalary] = s
	}

	return slots
}

// extractMoney pulls a currency amount out of the first match of re.
// numGroup is the index of the numeric capture; the currency marker is the
// group before it and the k/thousand suffix the group after it.
func extractMoney(lowered, original string, re *regexp.Regexp, numGroup int) (intent.Slot, bool) {
	m := re.FindStringSubmatch(lowered)
	if m == nil {
		return intent.Slot{}, false
	}

	raw := m[numGroup]
	value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return intent.Slot{}, false
	}

	suffix := ""
	if numGroup+1 < len(m) {
		suffix = strings.TrimSpace(m[numGroup+1])
	}
	if suffix != "" {
		value *= 1000
		raw += suffix
	}

	return intent.Slot{
		RawValue:        raw,
		NormalizedValue: value,
		Currency:        detectCurrency(original),
		Confidence:      slotMatchConfidence,
		Unit:            "currency",
	}, true
}

// extractNumber pulls a plain numeric value from the first capture of re.
func extractNumber(lowered string, re *regexp.Regexp, unit string) (intent.Slot, bool) {
	m := re.FindStringSubmatch(lowered)
	if m == nil {
		return intent.Slot{}, false
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return intent.Slot{}, false
	}

	return intent.Slot{
		RawValue:        m[1],
		NormalizedValue: value,
		Confidence:      slotMatchConfidence,
		Unit:            unit,
	}, true
}

// detectCurrency inspects the original-case query for currency markers.
// Case matters: "INR" is a currency code, "inr" inside a word is not.
func detectCurrency(original string) string {
	switch {
	case strings.Contains(original, "₹"), strings.Contains(original, "INR"):
		return "INR"
	case strings.Contains(original, "$"), strings.Contains(original, "USD"):
		return "USD"
	default:
		return ""
	}
}
