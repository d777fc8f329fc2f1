package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// promauto registers against the default registry, so the package shares
// one instance across tests.
var testMetrics = NewMetrics("")

func TestRecordFetch(t *testing.T) {
	before := testutil.ToFloat64(testMetrics.FetchesTotal.WithLabelValues("static", "ok"))

	testMetrics.RecordFetch("static", "ok", 120*time.Millisecond)

	after := testutil.ToFloat64(testMetrics.FetchesTotal.WithLabelValues("static", "ok"))
	if after != before+1 {
		t.Errorf("page_fetches_total = %v, want %v", after, before+1)
	}
}

func TestRecordClaudeRequest(t *testing.T) {
	model := "claude-sonnet-4-20250514"
	requestsBefore := testutil.ToFloat64(testMetrics.ClaudeRequestsTotal.WithLabelValues(model, "brand-enrichment", "enriched"))
	inputBefore := testutil.ToFloat64(testMetrics.ClaudeTokensUsed.WithLabelValues(model, "input"))

	testMetrics.RecordClaudeRequest(model, "brand-enrichment", "enriched", 2*time.Second, 850, 320)

	if got := testutil.ToFloat64(testMetrics.ClaudeRequestsTotal.WithLabelValues(model, "brand-enrichment", "enriched")); got != requestsBefore+1 {
		t.Errorf("claude_requests_total = %v, want %v", got, requestsBefore+1)
	}
	if got := testutil.ToFloat64(testMetrics.ClaudeTokensUsed.WithLabelValues(model, "input")); got != inputBefore+850 {
		t.Errorf("claude_tokens_used_total{type=input} = %v, want %v", got, inputBefore+850)
	}
	if got := testutil.ToFloat64(testMetrics.ClaudeTokensUsed.WithLabelValues(model, "output")); got < 320 {
		t.Errorf("claude_tokens_used_total{type=output} = %v, want at least 320", got)
	}
}

func TestRecordExtractionFailure(t *testing.T) {
	before := testutil.ToFloat64(testMetrics.ExtractionFailures.WithLabelValues("FETCH_FAILED"))

	testMetrics.RecordExtractionFailure("FETCH_FAILED")

	after := testutil.ToFloat64(testMetrics.ExtractionFailures.WithLabelValues("FETCH_FAILED"))
	if after != before+1 {
		t.Errorf("extraction_failures_total = %v, want %v", after, before+1)
	}
}
