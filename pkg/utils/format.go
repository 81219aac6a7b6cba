// Package utils holds small formatting and timing helpers used by the page.
package utils

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultLocale is the storefront locale.
const DefaultLocale = "zh-CN"

var dateLocales = []language.Tag{
	language.SimplifiedChinese,
	language.AmericanEnglish,
	language.Japanese,
}

var dateLayouts = map[language.Tag]string{
	language.SimplifiedChinese: "2006年1月2日",
	language.AmericanEnglish:   "January 2, 2006",
	language.Japanese:          "2006年1月2日",
}

var dateMatcher = language.NewMatcher(dateLocales)

// FormatPrice renders a CNY amount with grouping and no decimals, e.g. ¥1,299.
func FormatPrice(amount float64) string {
	return FormatPriceIn(amount, DefaultLocale)
}

// FormatPriceIn renders a CNY amount for the given BCP 47 locale.
func FormatPriceIn(amount float64, locale string) string {
	tag := parseLocale(locale)
	p := message.NewPrinter(tag)

	rounded := math.Round(amount)
	sign := ""
	if rounded < 0 {
		sign = "-"
		rounded = -rounded
	}

	symbol := p.Sprint(currency.NarrowSymbol(currency.CNY))
	digits := p.Sprint(number.Decimal(rounded, number.MaxFractionDigits(0)))
	return sign + symbol + digits
}

// FormatDate renders t as a long date, e.g. 2024年1月15日.
func FormatDate(t time.Time) string {
	return FormatDateIn(t, DefaultLocale)
}

// FormatDateIn renders t as a long date in the closest supported locale.
func FormatDateIn(t time.Time, locale string) string {
	_, idx, _ := dateMatcher.Match(parseLocale(locale))
	return t.Format(dateLayouts[dateLocales[idx]])
}

// ParseDate accepts RFC 3339 or YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date: %q", s)
}

// ParseAndFormatDate parses s with ParseDate and formats it with FormatDate.
func ParseAndFormatDate(s string) (string, error) {
	t, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return FormatDate(t), nil
}

func parseLocale(locale string) language.Tag {
	tag, err := language.Parse(locale)
	if err != nil {
		return language.SimplifiedChinese
	}
	return tag
}
