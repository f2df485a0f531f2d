// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package eprint

import (
	"context"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/cryptodigest/eprint-watch/pkg/types"
)

// Enricher scrapes keyword badges from a paper's detail page. The OAI-PMH
// feed does not carry them; the web page renders them as anchors with a
// "keyword" class inside a <dd class="keywords"> block.
type Enricher struct {
	Client *http.Client
	Config types.HarvestConfig
}

// FetchKeywords returns the keyword badges for a paper, in page order.
// Enrichment is strictly best-effort: any fetch or parse failure yields
// an empty slice and must never abort the surrounding harvest.
func (e *Enricher) FetchKeywords(ctx context.Context, id string) []string {
	base := e.Config.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSuffix(base, "/")+"/"+id, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", e.Config.UserAgent)

	resp, err := e.Client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil
	}

	var keywords []string
	doc.Find("dd.keywords a").Each(func(_ int, sel *goquery.Selection) {
		class, _ := sel.Attr("class")
		if !strings.Contains(class, "keyword") {
			return
		}
		if text := strings.TrimSpace(sel.Text()); text != "" {
			keywords = append(keywords, text)
		}
	})
	return keywords
}
