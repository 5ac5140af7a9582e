package search

import (
	"regexp"
	"strings"
)

var ownerToken = regexp.MustCompile(`(^|\s)@(\w+)(\s|$)`)

// Query is a raw query split into its owner scope and free text.
type Query struct {
	Raw        string
	OwnerScope string
	Residual   string
}

// Scoped reports whether the query carries an owner scope.
func (q Query) Scoped() bool {
	return q.OwnerScope != ""
}

// ParseQuery extracts the first "@name" token from raw. Later "@tokens"
// stay in the residual and are matched as plain text.
func ParseQuery(raw string) Query {
	loc := ownerToken.FindStringSubmatchIndex(raw)
	if loc == nil {
		return Query{Raw: raw, Residual: raw}
	}
	// loc[4]:loc[5] is the name; the "@" sits right before it.
	start, end := loc[4]-1, loc[5]
	residual := raw[:start] + raw[end:]
	return Query{
		Raw:        raw,
		OwnerScope: strings.ToLower(raw[loc[4]:loc[5]]),
		Residual:   strings.TrimSpace(residual),
	}
}
