// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// KST is the fixed UTC+9 offset all published dates are normalized to
// before display or window comparison.
var KST = time.FixedZone("KST", 9*60*60)

// Paper holds metadata for one ePrint archive entry.
type Paper struct {
	// ID is the ePrint identifier in <year>/<number> form (e.g. "2025/1234").
	// It is the sole identity used for deduplication; a metadata revision
	// keeps the same ID.
	ID string `json:"id" yaml:"id"`

	// Title is the paper title. May be empty if the source omits it.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper abstract. May be empty.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Categories are the dc:subject classifications from the OAI-PMH feed.
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`

	// Keywords are the keyword badges scraped from the paper's detail page.
	// Independent of Categories; empty when the side fetch fails.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	// URL is the paper's landing page, derived from ID.
	URL string `json:"url" yaml:"url"`

	// PDFURL is the direct PDF link, derived from ID.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`

	// PublishedDate is the publication timestamp in KST. The zero value
	// means the source date was missing or unparseable.
	PublishedDate time.Time `json:"published_date,omitempty" yaml:"published_date,omitempty"`
}
