// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package eprint

import (
	"strings"
	"time"

	"github.com/cryptodigest/eprint-watch/pkg/types"
)

// parseRecord converts one OAI-PMH record into a Paper. It returns nil
// for records without a Dublin Core metadata block; the harvest tolerates
// protocol noise instead of failing a whole batch.
func parseRecord(rec oaiRecord, baseURL string) *types.Paper {
	dc := rec.Metadata.DC
	if dc == nil {
		return nil
	}

	// The OAI identifier is namespaced (oai:eprint.iacr.org:2025/1234);
	// the ePrint ID is everything after the last colon.
	id := extractID(rec.Header.Identifier)
	if id == "" {
		return nil
	}

	return &types.Paper{
		ID:            id,
		Title:         firstText(dc.Titles),
		Abstract:      firstText(dc.Descriptions),
		Authors:       allText(dc.Creators),
		Categories:    allText(dc.Subjects),
		URL:           baseURL + "/" + id,
		PDFURL:        baseURL + "/" + id + ".pdf",
		PublishedDate: parseDate(firstText(dc.Dates)),
	}
}

// extractID strips the OAI namespace prefix from an identifier. The ePrint
// ID itself contains a slash but no colon, so the last colon segment is
// the full ID.
func extractID(identifier string) string {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return ""
	}
	if idx := strings.LastIndex(identifier, ":"); idx >= 0 {
		return identifier[idx+1:]
	}
	return identifier
}

// parseDate normalizes a dc:date string to KST. A value with a time
// component is parsed as RFC 3339; a bare date is anchored to midnight
// UTC. Unparseable input yields the zero time rather than an error so a
// bad date never drops the record.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}

	if strings.Contains(s, "T") {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.In(types.KST)
		}
		return time.Time{}
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.In(types.KST)
	}
	return time.Time{}
}

// firstText returns the first non-empty trimmed value.
func firstText(values []string) string {
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	return ""
}

// allText trims every value, dropping empties and preserving order.
func allText(values []string) []string {
	var out []string
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}
