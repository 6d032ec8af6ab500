package der

import (
	"strconv"
	"time"
)

// EncodeUTCTime encodes value as a UTCTime: YYMMDDHHMMSSZ, always in UTC
// and always including seconds, the canonical DER form.
func EncodeUTCTime(class Class, value time.Time) []byte {
	text := value.UTC().Format("060102150405Z")
	return append(EncodeHeader(class, false, TagUTCTime, len(text)), []byte(text)...)
}

// DecodeUTCTime decodes UTCTime content. Accepts the optional seconds/offset
// forms UTCTime permits; two-digit years are widened per the X.509
// convention (YY>=50 -> 19YY, else 20YY).
func DecodeUTCTime(content []byte) (time.Time, error) {
	s := string(content)
	layouts := []string{
		"0601021504Z",
		"060102150405Z",
		"0601021504-0700",
		"060102150405-0700",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return rebase2DigitYear(t), nil
		}
	}
	return time.Time{}, newErr(KindInvalidContent, "utctime", "does not match any UTCTime layout")
}

func rebase2DigitYear(t time.Time) time.Time {
	yy := t.Year() % 100
	y := 2000 + yy
	if yy >= 50 {
		y = 1900 + yy
	}
	if y == t.Year() {
		return t
	}
	return time.Date(y, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, t.Location())
}

// EncodeGeneralizedTime encodes value as GeneralizedTime:
// YYYYMMDDHHMMSSZ. The caller is responsible for value already satisfying
// IsValidGeneralizedTime - the codec does not re-validate.
func EncodeGeneralizedTime(class Class, value time.Time) []byte {
	text := value.UTC().Format("20060102150405Z")
	return append(EncodeHeader(class, false, TagGeneralizedTime, len(text)), []byte(text)...)
}

// DecodeGeneralizedTime decodes GeneralizedTime content into a time.Time.
// Leap seconds (ss=60) are normalized to :59 plus one second, since Go's
// time.Time cannot represent a leap second directly; callers that need to
// detect the leap-second case should call IsValidGeneralizedTime /
// inspect the raw string first.
func DecodeGeneralizedTime(content []byte) (time.Time, error) {
	s := string(content)
	if !IsValidGeneralizedTime(s) {
		return time.Time{}, newErr(KindInvalidContent, "generalizedtime", "does not match GeneralizedTime grammar")
	}
	return parseGeneralizedTime(s)
}

// parseGeneralizedTime parses a string already accepted by
// IsValidGeneralizedTime.
func parseGeneralizedTime(s string) (time.Time, error) {
	// Determine zone suffix.
	var zoneLayout, zoneSuffix string
	body := s
	switch {
	case len(s) > 0 && s[len(s)-1] == 'Z':
		zoneLayout = "Z"
		body = s[:len(s)-1]
	default:
		for i := len(s) - 1; i >= 0; i-- {
			if s[i] == '+' || s[i] == '-' {
				zoneSuffix = s[i:]
				body = s[:i]
				break
			}
		}
	}

	datePart := body
	var fraction string
	if idx := indexAny(body, ".,"); idx >= 0 {
		datePart = body[:idx]
		fraction = body[idx+1:]
	}

	var layout string
	switch len(datePart) {
	case 10: // YYYYMMDDHH
		layout = "2006010215"
	case 12: // YYYYMMDDHHMM
		layout = "200601021504"
	case 14: // YYYYMMDDHHMMSS
		layout = "20060102150405"
	default:
		return time.Time{}, newErr(KindInvalidContent, "generalizedtime", "unexpected field width")
	}

	leapSecond := len(datePart) == 14 && datePart[12:] == "60"
	if leapSecond {
		datePart = datePart[:12] + "59"
	}
	t, err := time.Parse(layout, datePart)
	if err != nil {
		return time.Time{}, wrapErr(KindInvalidContent, "generalizedtime", "failed to parse date/time fields", err)
	}
	if leapSecond {
		t = t.Add(time.Second)
	}

	if fraction != "" {
		frac, err := strconv.ParseFloat("0."+fraction, 64)
		if err != nil {
			return time.Time{}, wrapErr(KindInvalidContent, "generalizedtime", "invalid fractional seconds", err)
		}
		var unit time.Duration
		switch len(datePart) {
		case 10:
			unit = time.Hour
		case 12:
			unit = time.Minute
		case 14:
			unit = time.Second
		}
		t = t.Add(time.Duration(frac * float64(unit)))
	}

	switch zoneLayout {
	case "Z":
		return t.UTC(), nil
	default:
		if zoneSuffix == "" {
			return t, nil // no zone specified: local/unspecified, per X.690 this is allowed but discouraged
		}
		zt, err := time.Parse("-0700", zoneSuffix)
		if err != nil && len(zoneSuffix) == 3 {
			zt, err = time.Parse("-07", zoneSuffix)
		}
		if err != nil {
			return time.Time{}, wrapErr(KindInvalidContent, "generalizedtime", "invalid zone offset", err)
		}
		_, offset := zt.Zone()
		loc := time.FixedZone("", offset)
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc).UTC(), nil
	}
}

func indexAny(s, chars string) int {
	for i := 0; i < len(s); i++ {
		for j := 0; j < len(chars); j++ {
			if s[i] == chars[j] {
				return i
			}
		}
	}
	return -1
}

// IsValidGeneralizedTime implements the GeneralizedTime grammar:
//
//	YYYYMMDDhh[mm[ss[(.|,)f{1,4}]]][((+|-)hh[mm])|Z]
//
// with local range checks (MM 01-12, DD 01-31, hh 00-23 [24 only allowed in
// zone offsets, not handled here since offsets are a different field], mm
// 00-59, ss 00-59 except ss=60 accepted only for the leap-second dates
// 0630235… / 1231235…). Month/day cross-checking (e.g. February 31st),
// actual leap-year logic, and whether a leap second truly occurred on that
// date are intentionally not validated - a documented limitation.
func IsValidGeneralizedTime(s string) bool {
	i := 0
	readDigits := func(n int) (string, bool) {
		if i+n > len(s) {
			return "", false
		}
		for j := i; j < i+n; j++ {
			if s[j] < '0' || s[j] > '9' {
				return "", false
			}
		}
		out := s[i : i+n]
		i += n
		return out, true
	}
	atoi := func(str string) int {
		v, _ := strconv.Atoi(str)
		return v
	}

	yyyy, ok := readDigits(4)
	if !ok {
		return false
	}
	_ = yyyy
	mm, ok := readDigits(2)
	if !ok {
		return false
	}
	month := atoi(mm)
	if month < 1 || month > 12 {
		return false
	}
	dd, ok := readDigits(2)
	if !ok {
		return false
	}
	day := atoi(dd)
	if day < 1 || day > 31 {
		return false
	}
	hh, ok := readDigits(2)
	if !ok {
		return false
	}
	hour := atoi(hh)
	if hour < 0 || hour > 23 {
		return false
	}

	var minute, second string
	haveMinute, haveSecond := false, false

	if i < len(s) && isDigit(s[i]) {
		minute, ok = readDigits(2)
		if !ok {
			return false
		}
		if atoi(minute) > 59 {
			return false
		}
		haveMinute = true

		if i < len(s) && isDigit(s[i]) {
			second, ok = readDigits(2)
			if !ok {
				return false
			}
			secVal := atoi(second)
			if secVal > 60 {
				return false
			}
			if secVal == 60 && !leapSecondAllowed(mm, dd, hh, minute) {
				return false
			}
			haveSecond = true

			if i < len(s) && (s[i] == '.' || s[i] == ',') {
				i++
				start := i
				for i < len(s) && isDigit(s[i]) && i-start < 4 {
					i++
				}
				if i == start {
					return false // at least one fractional digit required
				}
			}
		}
	}
	_ = haveMinute
	_ = haveSecond

	if i < len(s) {
		switch s[i] {
		case 'Z':
			i++
		case '+', '-':
			i++
			_, ok := readDigits(2)
			if !ok {
				return false
			}
			if i < len(s) && isDigit(s[i]) {
				_, ok := readDigits(2)
				if !ok {
					return false
				}
			}
		default:
			return false
		}
	}

	return i == len(s)
}

// leapSecondAllowed implements the §4.1 leap-second carve-out: ss=60 is
// accepted only when the preceding components match 06302359 or 12312359
// (June 30 or December 31, 23:59).
func leapSecondAllowed(mm, dd, hh, minute string) bool {
	prefix := mm + dd + hh + minute
	return prefix == "06302359" || prefix == "12312359"
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
