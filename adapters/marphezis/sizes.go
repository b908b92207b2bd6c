package marphezis

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/marphezis/prebid-adapters/adapters"
	"github.com/prebid/openrtb/v20/openrtb2"
)

// ParseSizes reads the slot sizes. Banner sizes win over the legacy list when both
// are present. A single [w, h] pair is treated as a list of one pair.
//
// Entries which are not [w, h] pairs of positive integers are dropped. Numeric strings
// are read up to the first non digit, so "300px" is 300.
func ParseSizes(banner, legacy json.RawMessage) []openrtb2.Format {
	raw := banner
	if !isPresent(raw) {
		raw = legacy
	}
	if !isPresent(raw) {
		return nil
	}

	if _, dataType, _, err := jsonparser.Get(raw); err != nil || dataType != jsonparser.Array {
		return nil
	}
	if _, dataType, _, err := jsonparser.Get(raw, "[0]"); err == nil && dataType != jsonparser.Array {
		// a bare [w, h] pair
		if size, ok := parseSize(raw); ok {
			return []openrtb2.Format{size}
		}
		return nil
	}

	var sizes []openrtb2.Format
	jsonparser.ArrayEach(raw, func(value []byte, dataType jsonparser.ValueType, _ int, _ error) {
		if dataType != jsonparser.Array {
			return
		}
		if size, ok := parseSize(value); ok {
			sizes = append(sizes, size)
		}
	})
	return sizes
}

// HasSizes reports whether the slot declares at least one usable banner size.
func HasSizes(request *adapters.BidRequest) bool {
	return len(ParseSizes(request.BannerSizes(), request.Sizes)) > 0
}

// SelectMinimumSize returns the size with the smallest area. Ties keep the earliest
// size. An empty list yields the zero Format.
func SelectMinimumSize(sizes []openrtb2.Format) openrtb2.Format {
	if len(sizes) == 0 {
		return openrtb2.Format{}
	}
	min := sizes[0]
	for _, size := range sizes[1:] {
		if size.W*size.H < min.W*min.H {
			min = size
		}
	}
	return min
}

func parseSize(pair []byte) (openrtb2.Format, bool) {
	var dims []int64
	valid := true
	jsonparser.ArrayEach(pair, func(value []byte, dataType jsonparser.ValueType, _ int, _ error) {
		dim, ok := parseDimension(value, dataType)
		if !ok {
			valid = false
			return
		}
		dims = append(dims, dim)
	})
	if !valid || len(dims) != 2 {
		return openrtb2.Format{}, false
	}
	return openrtb2.Format{W: dims[0], H: dims[1]}, true
}

func parseDimension(value []byte, dataType jsonparser.ValueType) (int64, bool) {
	if dataType != jsonparser.Number && dataType != jsonparser.String {
		return 0, false
	}
	dim, ok := parseIntPrefix(string(value))
	return dim, ok && dim > 0
}

// parseIntPrefix reads the leading base 10 integer of s, ignoring leading spaces and
// anything after the digits.
func parseIntPrefix(s string) (int64, bool) {
	s = strings.TrimLeft(s, " \t\r\n")
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseFloatPrefix reads the leading decimal number of s, so "2.5abc" is 2.5.
func parseFloatPrefix(s string) (float64, bool) {
	s = strings.TrimLeft(s, " \t\r\n")
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	mantissa := 0
	for end < len(s) && isDigit(s[end]) {
		end++
		mantissa++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && isDigit(s[end]) {
			end++
			mantissa++
		}
	}
	if mantissa == 0 {
		return 0, false
	}
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := end + 1
		if exp < len(s) && (s[exp] == '-' || s[exp] == '+') {
			exp++
		}
		if exp < len(s) && isDigit(s[exp]) {
			for exp < len(s) && isDigit(s[exp]) {
				exp++
			}
			end = exp
		}
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isPresent(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed != "" && trimmed != "null"
}
