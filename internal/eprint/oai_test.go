// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package eprint

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cryptodigest/eprint-watch/pkg/types"
)

// oaiPageXML renders a minimal ListRecords response. token of "" omits
// the resumptionToken element.
func oaiPageXML(token string, ids ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<OAI-PMH xmlns="http://www.openarchives.org/OAI/2.0/"><ListRecords>`)
	for _, id := range ids {
		fmt.Fprintf(&b, `<record><header><identifier>oai:eprint.iacr.org:%s</identifier></header>
			<metadata><oai_dc:dc xmlns:oai_dc="http://www.openarchives.org/OAI/2.0/oai_dc/" xmlns:dc="http://purl.org/dc/elements/1.1/">
			<dc:title>Paper %s</dc:title><dc:date>2025-06-01</dc:date>
			</oai_dc:dc></metadata></record>`, id, id)
	}
	if token != "" {
		fmt.Fprintf(&b, `<resumptionToken>%s</resumptionToken>`, token)
	}
	b.WriteString(`</ListRecords></OAI-PMH>`)
	return b.String()
}

func oaiErrorXML(code, message string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<OAI-PMH xmlns="http://www.openarchives.org/OAI/2.0/"><error code="%s">%s</error></OAI-PMH>`, code, message)
}

// newTestHarvester wires a Harvester against ts with no inter-page delay.
func newTestHarvester(ts *httptest.Server) *Harvester {
	return &Harvester{
		Client: ts.Client(),
		Config: types.HarvestConfig{
			HTTPConfig: types.HTTPConfig{UserAgent: "eprint-watch-test"},
			BaseURL:    ts.URL,
		},
	}
}

func collectIDs(t *testing.T, h *Harvester) ([]string, error) {
	t.Helper()
	var ids []string
	err := h.HarvestSince(context.Background(), time.Now().AddDate(0, 0, -1), func(p *types.Paper) bool {
		ids = append(ids, p.ID)
		return true
	})
	return ids, err
}

func TestHarvestSince_Pagination(t *testing.T) {
	var requests []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.RawQuery)
		switch r.URL.Query().Get("resumptionToken") {
		case "":
			fmt.Fprint(w, oaiPageXML("T1", "2025/1", "2025/2"))
		case "T1":
			fmt.Fprint(w, oaiPageXML("T2", "2025/3"))
		case "T2":
			fmt.Fprint(w, oaiPageXML("", "2025/4"))
		default:
			t.Errorf("unexpected token %q", r.URL.Query().Get("resumptionToken"))
		}
	}))
	defer ts.Close()

	ids, err := collectIDs(t, newTestHarvester(ts))
	if err != nil {
		t.Fatalf("HarvestSince: %v", err)
	}

	want := []string{"2025/1", "2025/2", "2025/3", "2025/4"}
	if len(ids) != len(want) {
		t.Fatalf("got %d papers (%v), want %d", len(ids), ids, len(want))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("paper %d = %s, want %s", i, ids[i], want[i])
		}
	}

	if len(requests) != 3 {
		t.Fatalf("got %d requests, want 3", len(requests))
	}
	// The first request carries the full filter; token requests carry
	// only the verb and token.
	if !strings.Contains(requests[0], "metadataPrefix=oai_dc") || !strings.Contains(requests[0], "from=") {
		t.Errorf("first request missing filter params: %s", requests[0])
	}
	for _, q := range requests[1:] {
		if strings.Contains(q, "metadataPrefix") || strings.Contains(q, "from=") {
			t.Errorf("token request must not resend the filter: %s", q)
		}
	}
}

func TestHarvestSince_NoRecordsMatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, oaiErrorXML("noRecordsMatch", "no matches"))
	}))
	defer ts.Close()

	ids, err := collectIDs(t, newTestHarvester(ts))
	if err != nil {
		t.Fatalf("noRecordsMatch must not be an error, got %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("got %d papers, want 0", len(ids))
	}
}

func TestHarvestSince_ProtocolErrorKeepsPartialResults(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			fmt.Fprint(w, oaiPageXML("T1", "2025/1"))
			return
		}
		fmt.Fprint(w, oaiErrorXML("badResumptionToken", "token expired"))
	}))
	defer ts.Close()

	ids, err := collectIDs(t, newTestHarvester(ts))
	if err == nil {
		t.Fatal("expected an error for badResumptionToken")
	}
	if len(ids) != 1 || ids[0] != "2025/1" {
		t.Errorf("partial results = %v, want [2025/1]", ids)
	}
}

func TestHarvestSince_TransportErrorKeepsPartialResults(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			fmt.Fprint(w, oaiPageXML("T1", "2025/1"))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	ids, err := collectIDs(t, newTestHarvester(ts))
	if err == nil {
		t.Fatal("expected an error for the failed second page")
	}
	if len(ids) != 1 {
		t.Errorf("partial results = %v, want one paper", ids)
	}
}

func TestHarvestSince_SkipsDeletedRecords(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?>
<OAI-PMH xmlns="http://www.openarchives.org/OAI/2.0/"><ListRecords>
<record><header status="deleted"><identifier>oai:eprint.iacr.org:2025/1</identifier></header></record>
<record><header><identifier>oai:eprint.iacr.org:2025/2</identifier></header>
<metadata><oai_dc:dc xmlns:oai_dc="http://www.openarchives.org/OAI/2.0/oai_dc/" xmlns:dc="http://purl.org/dc/elements/1.1/">
<dc:title>Kept</dc:title></oai_dc:dc></metadata></record>
</ListRecords></OAI-PMH>`)
	}))
	defer ts.Close()

	ids, err := collectIDs(t, newTestHarvester(ts))
	if err != nil {
		t.Fatalf("HarvestSince: %v", err)
	}
	if len(ids) != 1 || ids[0] != "2025/2" {
		t.Errorf("ids = %v, want [2025/2]", ids)
	}
}

func TestHarvestSince_YieldStopsHarvest(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		fmt.Fprint(w, oaiPageXML("NEXT", "2025/1", "2025/2"))
	}))
	defer ts.Close()

	count := 0
	err := newTestHarvester(ts).HarvestSince(context.Background(), time.Now(), func(*types.Paper) bool {
		count++
		return false
	})
	if err != nil {
		t.Fatalf("HarvestSince: %v", err)
	}
	if count != 1 {
		t.Errorf("yield called %d times, want 1", count)
	}
	if calls != 1 {
		t.Errorf("server saw %d requests, want 1", calls)
	}
}

func TestHarvestSince_EnrichesKeywords(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, oaiPageXML("", "2025/9"))
	}))
	defer ts.Close()

	h := newTestHarvester(ts)
	h.Keywords = staticKeywords{"lattices", "ML-KEM"}

	var got *types.Paper
	err := h.HarvestSince(context.Background(), time.Now().AddDate(0, 0, -1), func(p *types.Paper) bool {
		got = p
		return true
	})
	if err != nil {
		t.Fatalf("HarvestSince: %v", err)
	}
	if got == nil {
		t.Fatal("no paper yielded")
	}
	if len(got.Keywords) != 2 || got.Keywords[0] != "lattices" {
		t.Errorf("Keywords = %v, want [lattices ML-KEM]", got.Keywords)
	}
}

// staticKeywords is a KeywordFetcher returning a fixed list.
type staticKeywords []string

func (s staticKeywords) FetchKeywords(context.Context, string) []string { return s }
