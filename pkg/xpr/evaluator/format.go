package evaluator

import (
	"strings"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Locale-aware rendering for the CLI's text output. Numbers get digit
// grouping via x/text; dates get translated month and day names via
// monday. Inspect remains the canonical, locale-free form.

// FormatValue renders a Value for display under the given BCP 47 locale.
// An empty locale falls back to Inspect.
func FormatValue(v Value, locale string) string {
	if locale == "" {
		return v.Inspect()
	}
	switch n := v.(type) {
	case *Integer:
		p := message.NewPrinter(language.Make(locale))
		return p.Sprint(number.Decimal(n.Value))
	case *Real:
		p := message.NewPrinter(language.Make(locale))
		return p.Sprint(number.Decimal(n.Value))
	case *Date:
		loc := mondayLocale(locale)
		t := n.Value
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return monday.Format(t, "January 2, 2006", loc)
		}
		return monday.Format(t, "January 2, 2006 15:04:05", loc)
	case *List:
		parts := make([]string, len(n.Elements))
		for i, e := range n.Elements {
			parts[i] = FormatValue(e, locale)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return v.Inspect()
}

// mondayLocale maps a BCP 47 tag to the closest monday locale.
func mondayLocale(locale string) monday.Locale {
	normalized := strings.ReplaceAll(locale, "-", "_")
	for _, loc := range monday.ListLocales() {
		if string(loc) == normalized {
			return loc
		}
	}
	// Fall back on the language part alone: "fr" matches fr_FR.
	lang := strings.SplitN(normalized, "_", 2)[0]
	for _, loc := range monday.ListLocales() {
		if strings.HasPrefix(string(loc), lang+"_") {
			return loc
		}
	}
	return monday.LocaleEnUS
}
