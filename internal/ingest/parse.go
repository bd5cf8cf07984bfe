package ingest

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/taxdeed-cli/internal/model"
)

var moneyJunk = strings.NewReplacer("$", "", ",", "", " ", "", "USD", "", "usd", "")

// ParseMoney parses amounts like "$1,234.56", "(250.00)" or "1234". ok is
// false for blanks and placeholders such as "N/A" or "-".
func ParseMoney(s string) (v float64, ok bool, err error) {
	s = strings.TrimSpace(s)
	if isBlank(s) {
		return 0, false, nil
	}
	negative := strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
	if negative {
		s = s[1 : len(s)-1]
	}
	v, err = strconv.ParseFloat(moneyJunk.Replace(s), 64)
	if err != nil {
		return 0, false, eris.Errorf("ingest: invalid amount %q", s)
	}
	if negative {
		v = -v
	}
	return v, true, nil
}

// ParseNumber parses a plain number, tolerating thousands separators.
func ParseNumber(s string) (float64, bool, error) {
	s = strings.TrimSpace(s)
	if isBlank(s) {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false, eris.Errorf("ingest: invalid number %q", s)
	}
	return v, true, nil
}

// ParseInt parses a whole number. "1925.0" (as spreadsheets emit) is accepted.
func ParseInt(s string) (int, bool, error) {
	v, ok, err := ParseNumber(s)
	if err != nil || !ok {
		return 0, ok, err
	}
	if v != float64(int(v)) {
		return 0, false, eris.Errorf("ingest: invalid whole number %q", s)
	}
	return int(v), true, nil
}

// ParseDate parses the date formats seen in county sale lists.
func ParseDate(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if isBlank(s) {
		return time.Time{}, false, nil
	}
	t, err := model.ParseDate(s)
	if err != nil {
		return time.Time{}, false, eris.Errorf("ingest: invalid date %q", s)
	}
	return t, true, nil
}

// ParseBool parses yes/no style flags.
func ParseBool(s string) (bool, bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "true", "t", "1", "x":
		return true, true, nil
	case "n", "no", "false", "f", "0":
		return false, true, nil
	case "", "n/a", "na", "-", "unknown":
		return false, false, nil
	}
	return false, false, eris.Errorf("ingest: invalid flag %q", s)
}

var (
	spaceRun = regexp.MustCompile(`\s+`)

	// Municipality names and column titles that leak into the parcel column
	// when county lists are exported with repeated section headers.
	headerLikeParcels = map[string]bool{
		"TOWNSHIP": true, "BOROUGH": true, "CITY": true, "PARCEL": true,
		"PARCEL ID": true, "PARCEL NUMBER": true, "TOTAL": true, "TOTALS": true,
		"MAP NUMBER": true, "CONTROL NUMBER": true,
	}
)

// ErrHeaderLikeParcel marks a row whose parcel id is a section header.
var ErrHeaderLikeParcel = eris.New("ingest: header-like parcel id")

// CleanParcelID normalizes a parcel id: Unicode compatibility forms folded,
// whitespace collapsed. Section headers are rejected with ErrHeaderLikeParcel.
func CleanParcelID(s string) (string, error) {
	s = norm.NFKC.String(s)
	s = strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
	if s == "" {
		return "", nil
	}
	upper := strings.ToUpper(s)
	if headerLikeParcels[upper] || strings.HasSuffix(upper, " TOWNSHIP") || strings.HasSuffix(upper, " BOROUGH") {
		return "", ErrHeaderLikeParcel
	}
	return s, nil
}

func isBlank(s string) bool {
	switch strings.ToLower(s) {
	case "", "-", "--", "n/a", "na", "none", "null":
		return true
	}
	return false
}
