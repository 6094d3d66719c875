package pattern

import (
	"time"

	"github.com/goodsign/monday"
)

// Compiler memoizes compiled plans.
type Compiler struct {
	plans *lruCache[string, *Plan]
}

// NewCompiler returns a compiler keeping at most capacity plans.
func NewCompiler(capacity int) *Compiler {
	return &Compiler{plans: newLRU[string, *Plan](capacity)}
}

// Compile returns the cached plan for pattern, compiling it on first use.
func (c *Compiler) Compile(pattern string) (*Plan, error) {
	if plan, ok := c.plans.Get(pattern); ok {
		return plan, nil
	}
	plan, err := Compile(pattern)
	if err != nil {
		return nil, err
	}
	c.plans.Set(pattern, plan)
	return plan, nil
}

var defaultCompiler = NewCompiler(256)

// Format renders t with pattern in the given locale tag ("nl", "en_GB",
// "fr-CA"). Unknown locales render in English.
func Format(t time.Time, pattern, locale string) (string, error) {
	plan, err := defaultCompiler.Compile(pattern)
	if err != nil {
		return "", err
	}
	loc, _ := ResolveLocale(locale)
	return plan.Render(t, loc), nil
}

// ParseInLocation parses value with pattern in the given locale tag.
func ParseInLocation(pattern, value string, loc *time.Location, locale string) (time.Time, error) {
	plan, err := defaultCompiler.Compile(pattern)
	if err != nil {
		return time.Time{}, err
	}
	ml, _ := ResolveLocale(locale)
	return plan.Parse(value, loc, ml)
}

// RenderLocale is Format for callers that already resolved a locale.
func RenderLocale(t time.Time, pattern string, locale monday.Locale) (string, error) {
	plan, err := defaultCompiler.Compile(pattern)
	if err != nil {
		return "", err
	}
	return plan.Render(t, locale), nil
}
