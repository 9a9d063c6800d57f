// Package platform names the push platforms an SNS platform application can target.
package platform

import (
	"fmt"
	"strings"
)

// Platform is an SNS push platform identifier. It is used as an envelope key
// and to pick a payload renderer; it carries no other meaning.
type Platform string

const (
	ADM         Platform = "ADM"
	GCM         Platform = "GCM"
	APNS        Platform = "APNS"
	APNSSandbox Platform = "APNS_SANDBOX"
)

// All lists every known platform.
var All = []Platform{ADM, GCM, APNS, APNSSandbox}

// Defaults is the selection used when a caller does not configure one.
func Defaults() []Platform {
	return []Platform{APNS, GCM, ADM}
}

func (p Platform) String() string {
	return string(p)
}

// Valid reports whether p is one of the known platforms.
func (p Platform) Valid() bool {
	for _, known := range All {
		if p == known {
			return true
		}
	}
	return false
}

// Parse maps a platform name to a Platform. Matching ignores case and
// surrounding whitespace.
func Parse(name string) (Platform, error) {
	p := Platform(strings.ToUpper(strings.TrimSpace(name)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown push platform %q", name)
	}
	return p, nil
}

// ParseList parses a list of platform names, failing on the first unknown one.
func ParseList(names []string) ([]Platform, error) {
	out := make([]Platform, 0, len(names))
	for _, n := range names {
		p, err := Parse(n)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
