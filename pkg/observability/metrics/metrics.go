package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	complaintsSubmitted atomic.Int64
	complaintsClosed    atomic.Int64
	sentimentFailures   atomic.Int64
	categoryFailures    atomic.Int64
	geoFailures         atomic.Int64
)

func Init() {}

func IncComplaintsSubmitted() { complaintsSubmitted.Add(1) }
func IncComplaintsClosed()    { complaintsClosed.Add(1) }

// IncEnrichmentFailure records a per-client enrichment miss. Unknown provider
// names are dropped rather than counted against a catch-all.
func IncEnrichmentFailure(provider string) {
	switch provider {
	case "sentiment":
		sentimentFailures.Add(1)
	case "category":
		categoryFailures.Add(1)
	case "geo":
		geoFailures.Add(1)
	}
}

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP complaints_submitted_total Number of complaints accepted since process start.\n")
	fmt.Fprintf(w, "# TYPE complaints_submitted_total counter\n")
	fmt.Fprintf(w, "complaints_submitted_total %d\n", complaintsSubmitted.Load())

	fmt.Fprintf(w, "# HELP complaints_closed_total Number of complaints transitioned to closed since process start.\n")
	fmt.Fprintf(w, "# TYPE complaints_closed_total counter\n")
	fmt.Fprintf(w, "complaints_closed_total %d\n", complaintsClosed.Load())

	fmt.Fprintf(w, "# HELP complaints_enrichment_failures_total Enrichment client failures since process start, by provider.\n")
	fmt.Fprintf(w, "# TYPE complaints_enrichment_failures_total counter\n")
	fmt.Fprintf(w, "complaints_enrichment_failures_total{provider=\"sentiment\"} %d\n", sentimentFailures.Load())
	fmt.Fprintf(w, "complaints_enrichment_failures_total{provider=\"category\"} %d\n", categoryFailures.Load())
	fmt.Fprintf(w, "complaints_enrichment_failures_total{provider=\"geo\"} %d\n", geoFailures.Load())
}
