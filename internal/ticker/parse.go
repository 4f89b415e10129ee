package ticker

import (
	"fmt"
	"strconv"
	"strings"
)

// MalformedTickerError reports a ticker that matches neither suffix
// convention.
type MalformedTickerError struct {
	Ticker string
	Reason string
}

func (e *MalformedTickerError) Error() string {
	return fmt.Sprintf("malformed ticker %q: %s", e.Ticker, e.Reason)
}

// Parse splits a market ticker into its contract family (the shared prefix)
// and bin key (the numeric outcome level in the suffix).
func Parse(t string) (family string, bin float64, err error) {
	idx := strings.LastIndex(t, "-")
	if idx <= 0 || idx == len(t)-1 {
		return "", 0, &MalformedTickerError{Ticker: t, Reason: "no strike suffix"}
	}

	family = t[:idx]
	suffix := t[idx+1:]

	// Level convention: trailing "-T<number>".
	if suffix[0] == 'T' && len(suffix) > 1 {
		bin, err = strconv.ParseFloat(suffix[1:], 64)
		if err == nil {
			return family, bin, nil
		}
	}

	// Bucket convention: trailing bare numeric suffix.
	bin, err = strconv.ParseFloat(suffix, 64)
	if err != nil {
		return "", 0, &MalformedTickerError{Ticker: t, Reason: "suffix is not a strike"}
	}

	return family, bin, nil
}
