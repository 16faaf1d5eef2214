// Package classify maps prediction-service control-status codes to a closed
// set of operator-facing categories.
//
// The service vocabulary has drifted across versions, so several codes map
// to the same category. Codes are registered in a table; callers only ever
// see a Classification and never compare raw codes.
package classify

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Category is the semantic meaning of a control status.
type Category int

const (
	// CategoryUnclassified is the explicit arm for codes not in the table.
	CategoryUnclassified Category = iota
	CategorySteady
	CategoryOptimized
	CategoryUnderbleach
	CategoryOverbleach
	CategoryRateLimited
	CategoryDeepCut
)

// Categories lists every known category, unclassified last.
var Categories = []Category{
	CategorySteady,
	CategoryOptimized,
	CategoryUnderbleach,
	CategoryOverbleach,
	CategoryRateLimited,
	CategoryDeepCut,
	CategoryUnclassified,
}

func (c Category) String() string {
	switch c {
	case CategorySteady:
		return "steady"
	case CategoryOptimized:
		return "optimized"
	case CategoryUnderbleach:
		return "underbleach"
	case CategoryOverbleach:
		return "overbleach"
	case CategoryRateLimited:
		return "rate_limited"
	case CategoryDeepCut:
		return "deep_cut"
	case CategoryUnclassified:
		return "unclassified"
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Severity drives presentation only. It never changes which values are shown.
type Severity string

const (
	SeverityInfo    Severity = "info"    // steady state, nothing to do
	SeverityNominal Severity = "nominal" // normal optimization action
	SeverityWarning Severity = "warning" // a safety guardrail engaged
	SeverityCaution Severity = "caution" // step-limited or staged adjustment
	SeverityUnknown Severity = "unknown"
)

// Classification is the result of classifying one status code.
type Classification struct {
	Code     string
	Category Category
	Severity Severity
	Label    string
}

// Known reports whether the code matched a registered entry.
func (c Classification) Known() bool {
	return c.Category != CategoryUnclassified
}

type meaning struct {
	severity Severity
	label    string
}

var meanings = map[Category]meaning{
	CategorySteady:       {SeverityInfo, "OPTIMAL CONDITION (MAINTAIN)"},
	CategoryOptimized:    {SeverityNominal, "OPTIMIZATION RECOMMENDED"},
	CategoryUnderbleach:  {SeverityWarning, "SAFETY: UNDER-BLEACH DETECTED"},
	CategoryOverbleach:   {SeverityWarning, "SAFETY: OVER-BLEACH DETECTED"},
	CategoryRateLimited:  {SeverityCaution, "STEP-LIMITED ADJUSTMENT"},
	CategoryDeepCut:      {SeverityCaution, "OVER-BLEACH: DEEP DOSE CUT"},
	CategoryUnclassified: {SeverityUnknown, ""},
}

// SeverityOf returns the fixed severity of a category.
func SeverityOf(c Category) Severity {
	if m, ok := meanings[c]; ok {
		return m.severity
	}
	return SeverityUnknown
}

// Registry is a code→category table. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	codes map[string]Category
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{codes: make(map[string]Category)}
}

// DefaultRegistry returns a registry holding every code observed across
// service versions.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(CategorySteady, "MAINTAIN_OPTIMAL", "HOLD_STEADY")
	r.Register(CategoryOptimized, "OPTIMIZATION_ACTION", "OPTIMIZED")
	r.Register(CategoryUnderbleach, "GUARDRAIL_UNDERBLEACH", "SAFETY_UNDERBLEACH")
	r.Register(CategoryOverbleach, "GUARDRAIL_OVERBLEACH", "SAFETY_OVERBLEACH")
	r.Register(CategoryRateLimited, "RATE_LIMITED")
	r.Register(CategoryDeepCut, "DEEP_CUT_MODE")
	return r
}

// Register maps codes to a category, replacing any previous mapping.
// Registering CategoryUnclassified removes the codes.
func (r *Registry) Register(c Category, codes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, code := range codes {
		key := normalize(code)
		if c == CategoryUnclassified {
			delete(r.codes, key)
			continue
		}
		r.codes[key] = c
	}
}

// Classify maps a status code to its classification. It is total: a code
// that is not registered, including the empty string, classifies as
// CategoryUnclassified with the raw code as its label.
func (r *Registry) Classify(code string) Classification {
	r.mu.RLock()
	c, ok := r.codes[normalize(code)]
	r.mu.RUnlock()

	if !ok {
		return Classification{
			Code:     code,
			Category: CategoryUnclassified,
			Severity: SeverityUnknown,
			Label:    code,
		}
	}
	m := meanings[c]
	return Classification{Code: code, Category: c, Severity: m.severity, Label: m.label}
}

// Codes returns the registered codes for a category, sorted.
func (r *Registry) Codes(c Category) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for code, cat := range r.codes {
		if cat == c {
			out = append(out, code)
		}
	}
	sort.Strings(out)
	return out
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

var defaultRegistry = DefaultRegistry()

// Classify classifies code against the default registry.
func Classify(code string) Classification {
	return defaultRegistry.Classify(code)
}
