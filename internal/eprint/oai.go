// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package eprint harvests paper metadata from the IACR ePrint archive
// over OAI-PMH and scrapes per-paper keyword badges from the web pages.
package eprint

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cryptodigest/eprint-watch/pkg/types"
)

// DefaultBaseURL is the ePrint archive root. The OAI endpoint lives at
// <base>/oai and paper pages at <base>/<id>.
const DefaultBaseURL = "https://eprint.iacr.org"

const metadataPrefixDC = "oai_dc"

// errNoRecordsMatch marks the protocol's "empty result" condition, which
// is a successful terminus rather than a failure.
var errNoRecordsMatch = fmt.Errorf("oai: no records match")

// KeywordFetcher supplies keyword badges for a paper ID. Implementations
// must be best-effort: an empty slice on failure, never a panic or abort.
type KeywordFetcher interface {
	FetchKeywords(ctx context.Context, id string) []string
}

// Harvester drives paginated ListRecords retrieval against the OAI-PMH
// endpoint and yields parsed papers incrementally.
type Harvester struct {
	Client *http.Client
	Config types.HarvestConfig

	// Keywords enriches each parsed paper with detail-page keywords.
	// Nil disables enrichment.
	Keywords KeywordFetcher
}

// baseURL returns the configured archive root or the default.
func (h *Harvester) baseURL() string {
	if h.Config.BaseURL != "" {
		return strings.TrimSuffix(h.Config.BaseURL, "/")
	}
	return DefaultBaseURL
}

// HarvestSince pages through ListRecords starting at the given lower-bound
// time (truncated to a UTC date, the protocol's granularity) and calls
// yield for every parsed, non-deleted record in protocol order. Yield
// returning false stops the harvest.
//
// Pagination follows resumption tokens; per the protocol a token request
// carries only the verb and the token, not the original filter. A
// noRecordsMatch error is a clean empty result. Any other protocol error,
// malformed XML, or transport failure ends pagination early and is
// returned after everything gathered so far has been yielded, so callers
// can treat the run as best-effort partial rather than retrying.
func (h *Harvester) HarvestSince(ctx context.Context, since time.Time, yield func(*types.Paper) bool) error {
	params := url.Values{}
	params.Set("verb", "ListRecords")
	params.Set("metadataPrefix", metadataPrefixDC)
	params.Set("from", since.UTC().Format("2006-01-02"))

	token := ""
	for page := 0; ; page++ {
		if page > 0 {
			// Courtesy delay between pages only, never before the first.
			if delay := h.Config.PageDelay; delay > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(delay):
				}
			}
			params = url.Values{}
			params.Set("verb", "ListRecords")
			params.Set("resumptionToken", token)
		}

		result, err := h.listRecords(ctx, params)
		if err != nil {
			if err == errNoRecordsMatch {
				return nil
			}
			return err
		}

		for _, rec := range result.records {
			if rec.Header.Status == "deleted" {
				continue
			}
			paper := parseRecord(rec, h.baseURL())
			if paper == nil {
				continue
			}
			if h.Keywords != nil {
				paper.Keywords = h.Keywords.FetchKeywords(ctx, paper.ID)
			}
			if !yield(paper) {
				return nil
			}
		}

		token = result.token
		if token == "" {
			return nil
		}
	}
}

// oaiPage is one decoded ListRecords response.
type oaiPage struct {
	records []oaiRecord
	token   string
}

// listRecords performs a single ListRecords request and decodes it.
func (h *Harvester) listRecords(ctx context.Context, params url.Values) (*oaiPage, error) {
	endpoint := h.baseURL() + "/oai?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", h.Config.UserAgent)

	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("OAI-PMH request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OAI-PMH endpoint returned HTTP %d", resp.StatusCode)
	}

	var envelope oaiResponse
	if err := xml.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("parsing OAI-PMH response: %w", err)
	}

	if envelope.Error != nil {
		if envelope.Error.Code == "noRecordsMatch" {
			return nil, errNoRecordsMatch
		}
		return nil, fmt.Errorf("OAI-PMH error [%s]: %s",
			envelope.Error.Code, strings.TrimSpace(envelope.Error.Message))
	}

	page := &oaiPage{}
	if lr := envelope.ListRecords; lr != nil {
		page.records = lr.Records
		if lr.ResumptionToken != nil {
			page.token = strings.TrimSpace(lr.ResumptionToken.Token)
		}
	}
	return page, nil
}

// OAI-PMH XML structures. Tags match local element names, so the
// oai/oai_dc/dc namespaces decode without explicit declarations.

type oaiResponse struct {
	XMLName     xml.Name        `xml:"OAI-PMH"`
	Error       *oaiError       `xml:"error"`
	ListRecords *oaiListRecords `xml:"ListRecords"`
}

type oaiError struct {
	Code    string `xml:"code,attr"`
	Message string `xml:",chardata"`
}

type oaiListRecords struct {
	Records         []oaiRecord         `xml:"record"`
	ResumptionToken *oaiResumptionToken `xml:"resumptionToken"`
}

type oaiResumptionToken struct {
	Token  string `xml:",chardata"`
	Cursor string `xml:"cursor,attr"`
}

type oaiRecord struct {
	Header struct {
		Status     string `xml:"status,attr"`
		Identifier string `xml:"identifier"`
		Datestamp  string `xml:"datestamp"`
	} `xml:"header"`
	Metadata struct {
		DC *dcMetadata `xml:"dc"`
	} `xml:"metadata"`
}

// dcMetadata is the flat Dublin Core block inside a record.
type dcMetadata struct {
	Titles       []string `xml:"title"`
	Creators     []string `xml:"creator"`
	Subjects     []string `xml:"subject"`
	Descriptions []string `xml:"description"`
	Dates        []string `xml:"date"`
}
