package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	httpRequests      atomic.Int64
	signupsTotal      atomic.Int64
	postsCreated      atomic.Int64
	messagesSent      atomic.Int64
	matchesComputed   atomic.Int64
	vectorCacheHits   atomic.Int64
	vectorCacheMisses atomic.Int64
)

func Init() {}

func IncHTTPRequests() {
	httpRequests.Add(1)
}

func IncSignups() {
	signupsTotal.Add(1)
}

func IncPostsCreated() {
	postsCreated.Add(1)
}

func IncMessagesSent() {
	messagesSent.Add(1)
}

func IncMatchesComputed(n int) {
	matchesComputed.Add(int64(n))
}

func IncVectorCacheHit() {
	vectorCacheHits.Add(1)
}

func IncVectorCacheMiss() {
	vectorCacheMisses.Add(1)
}

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	fmt.Fprintf(w, "# HELP we4us_http_requests_total Number of HTTP requests served.\n")
	fmt.Fprintf(w, "# TYPE we4us_http_requests_total counter\n")
	fmt.Fprintf(w, "we4us_http_requests_total %d\n", httpRequests.Load())

	fmt.Fprintf(w, "# HELP we4us_signups_total Number of accounts created.\n")
	fmt.Fprintf(w, "# TYPE we4us_signups_total counter\n")
	fmt.Fprintf(w, "we4us_signups_total %d\n", signupsTotal.Load())

	fmt.Fprintf(w, "# HELP we4us_posts_created_total Number of community posts created.\n")
	fmt.Fprintf(w, "# TYPE we4us_posts_created_total counter\n")
	fmt.Fprintf(w, "we4us_posts_created_total %d\n", postsCreated.Load())

	fmt.Fprintf(w, "# HELP we4us_messages_sent_total Number of direct messages sent.\n")
	fmt.Fprintf(w, "# TYPE we4us_messages_sent_total counter\n")
	fmt.Fprintf(w, "we4us_messages_sent_total %d\n", messagesSent.Load())

	fmt.Fprintf(w, "# HELP we4us_matches_computed_total Number of match results returned.\n")
	fmt.Fprintf(w, "# TYPE we4us_matches_computed_total counter\n")
	fmt.Fprintf(w, "we4us_matches_computed_total %d\n", matchesComputed.Load())

	fmt.Fprintf(w, "# HELP we4us_match_vector_cache_hits_total Match vector cache hits.\n")
	fmt.Fprintf(w, "# TYPE we4us_match_vector_cache_hits_total counter\n")
	fmt.Fprintf(w, "we4us_match_vector_cache_hits_total %d\n", vectorCacheHits.Load())

	fmt.Fprintf(w, "# HELP we4us_match_vector_cache_misses_total Match vector cache misses.\n")
	fmt.Fprintf(w, "# TYPE we4us_match_vector_cache_misses_total counter\n")
	fmt.Fprintf(w, "we4us_match_vector_cache_misses_total %d\n", vectorCacheMisses.Load())
}
