package pattern

import (
	"strings"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
)

// DefaultLocale is used when a tag is empty or cannot be matched.
const DefaultLocale = monday.Locale("en_US")

// supportedLocales lists the monday locales offered to the matcher. Order
// matters: the first entry for a language wins for bare language tags.
var supportedLocales = []monday.Locale{
	"en_US", "en_GB",
	"nl_NL", "nl_BE",
	"de_DE",
	"fr_FR", "fr_CA",
	"es_ES",
	"ca_ES",
	"it_IT",
	"pt_PT", "pt_BR",
	"da_DK",
	"sv_SE",
	"nb_NO", "nn_NO",
	"fi_FI",
	"pl_PL",
	"cs_CZ",
	"ro_RO",
	"hu_HU",
	"ru_RU",
	"uk_UA",
	"bg_BG",
	"el_GR",
	"tr_TR",
	"id_ID",
	"ja_JP",
	"ko_KR",
	"zh_CN", "zh_TW", "zh_HK",
}

var localeMatcher = func() language.Matcher {
	tags := make([]language.Tag, 0, len(supportedLocales))
	for _, l := range supportedLocales {
		tags = append(tags, language.Make(toBCP47(string(l))))
	}
	return language.NewMatcher(tags)
}()

// ResolveLocale maps a locale tag in POSIX ("nl_NL") or BCP 47 ("nl-NL")
// form, or a bare language ("nl"), to a supported locale. The boolean is
// false when the default was substituted.
func ResolveLocale(tag string) (monday.Locale, bool) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return DefaultLocale, false
	}
	for _, l := range supportedLocales {
		if strings.EqualFold(string(l), strings.ReplaceAll(tag, "-", "_")) {
			return l, true
		}
	}

	parsed, err := language.Parse(toBCP47(tag))
	if err != nil {
		return DefaultLocale, false
	}
	_, idx, conf := localeMatcher.Match(parsed)
	if conf == language.No || idx < 0 || idx >= len(supportedLocales) {
		return DefaultLocale, false
	}
	return supportedLocales[idx], true
}

// SupportedLocales returns the locales ResolveLocale can produce.
func SupportedLocales() []monday.Locale {
	out := make([]monday.Locale, len(supportedLocales))
	copy(out, supportedLocales)
	return out
}

func toBCP47(tag string) string {
	return strings.ReplaceAll(tag, "_", "-")
}
