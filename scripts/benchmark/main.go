package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"slices"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/use-agent/minhash/models"
)

// CLI flags
var (
	apiURL      = flag.String("api-url", "http://localhost:8080", "minhash API base URL")
	apiKey      = flag.String("api-key", "", "API key for authenticated requests")
	requests    = flag.Int("requests", 500, "Requests per scenario")
	concurrency = flag.Int("concurrency", 8, "Concurrent clients")
	numFuncs    = flag.Int("num-funcs", 128, "Hash functions per signature")
	output      = flag.String("output", "benchmark-results.json", "JSON output file path")
)

// scenario is one request shape sent repeatedly.
type scenario struct {
	Label     string
	Tokenizer string
	Words     int
}

var scenarios = []scenario{
	{"Sentence", "whitespace", 12},
	{"Paragraph", "whitespace", 150},
	{"Article", "whitespace", 2000},
	{"HTML page", "html", 2000},
	{"DOM page", "dom", 2000},
}

// --- Benchmark result types ---

type scenarioResult struct {
	Label        string  `json:"label"`
	Tokenizer    string  `json:"tokenizer"`
	Words        int     `json:"words"`
	Requests     int     `json:"requests"`
	Failures     int     `json:"failures"`
	RequestsPerS float64 `json:"requests_per_second"`
	P50Ms        float64 `json:"p50_ms"`
	P95Ms        float64 `json:"p95_ms"`
	AvgHashingUs float64 `json:"avg_hashing_us"`
	FirstError   string  `json:"first_error,omitempty"`
}

type benchmarkReport struct {
	Timestamp   string           `json:"timestamp"`
	APIURL      string           `json:"api_url"`
	Concurrency int              `json:"concurrency"`
	NumFuncs    int              `json:"num_funcs"`
	Results     []scenarioResult `json:"results"`
}

func main() {
	flag.Parse()

	fmt.Println("=== MinHash Benchmark Suite ===")
	fmt.Printf("API URL:      %s\n", *apiURL)
	fmt.Printf("Requests:     %d per scenario\n", *requests)
	fmt.Printf("Concurrency:  %d\n", *concurrency)
	fmt.Printf("Output:       %s\n", *output)
	fmt.Println()

	// Quick connectivity check.
	if err := checkAPI(*apiURL); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot reach API at %s: %v\n", *apiURL, err)
		fmt.Fprintf(os.Stderr, "Make sure the server is running (go run ./cmd/minhash)\n")
		os.Exit(1)
	}

	report := benchmarkReport{
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		APIURL:      *apiURL,
		Concurrency: *concurrency,
		NumFuncs:    *numFuncs,
	}

	client := &http.Client{Timeout: 30 * time.Second}
	for _, sc := range scenarios {
		fmt.Printf("Benchmarking [%s] %d words ... ", sc.Label, sc.Words)
		res := runScenario(client, sc)
		fmt.Printf("%.0f req/s, %d failed\n", res.RequestsPerS, res.Failures)
		report.Results = append(report.Results, res)
	}
	fmt.Println()

	printTable(report.Results)

	if err := writeJSON(*output, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing JSON output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nDetailed results written to %s\n", *output)
}

func checkAPI(baseURL string) error {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(baseURL + "/api/v1/health")
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// makeText builds a pseudo-random document. Every request gets a distinct
// text so the server cache never answers.
func makeText(r *rand.Rand, sc scenario) string {
	var sb strings.Builder
	if sc.Tokenizer != "whitespace" {
		sb.WriteString("<html><head><title>bench</title></head><body><article>")
	}
	for i := range sc.Words {
		if sc.Tokenizer != "whitespace" && i%40 == 0 {
			if i > 0 {
				sb.WriteString("</p>")
			}
			sb.WriteString("<p>")
		}
		fmt.Fprintf(&sb, "w%d ", r.IntN(5000))
	}
	if sc.Tokenizer != "whitespace" {
		sb.WriteString("</p></article></body></html>")
	}
	return sb.String()
}

type sample struct {
	latency   time.Duration
	hashingUs int64
	err       string
}

func runScenario(client *http.Client, sc scenario) scenarioResult {
	jobs := make(chan int)
	samples := make([]sample, *requests)

	var wg sync.WaitGroup
	start := time.Now()
	for w := range max(*concurrency, 1) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := rand.New(rand.NewPCG(uint64(w), uint64(time.Now().UnixNano())))
			for i := range jobs {
				samples[i] = signOnce(client, sc, makeText(r, sc))
			}
		}()
	}
	for i := range samples {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	elapsed := time.Since(start)

	res := scenarioResult{
		Label:     sc.Label,
		Tokenizer: sc.Tokenizer,
		Words:     sc.Words,
		Requests:  len(samples),
	}

	var latencies []time.Duration
	var hashing int64
	for _, s := range samples {
		if s.err != "" {
			res.Failures++
			if res.FirstError == "" {
				res.FirstError = s.err
			}
			continue
		}
		latencies = append(latencies, s.latency)
		hashing += s.hashingUs
	}
	if len(latencies) == 0 {
		return res
	}

	slices.Sort(latencies)
	res.RequestsPerS = float64(len(latencies)) / elapsed.Seconds()
	res.P50Ms = percentile(latencies, 0.50)
	res.P95Ms = percentile(latencies, 0.95)
	res.AvgHashingUs = float64(hashing) / float64(len(latencies))
	return res
}

func signOnce(client *http.Client, sc scenario, text string) sample {
	reqBody := models.SignatureRequest{
		Text: text,
		SignatureParams: models.SignatureParams{
			Tokenizer: sc.Tokenizer,
			NumFuncs:  *numFuncs,
		},
		NoCache: true,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return sample{err: fmt.Sprintf("marshal error: %v", err)}
	}

	req, err := http.NewRequest(http.MethodPost, *apiURL+"/api/v1/signature", bytes.NewReader(bodyBytes))
	if err != nil {
		return sample{err: fmt.Sprintf("request error: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	if *apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+*apiKey)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return sample{err: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	var sr models.SignatureResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return sample{err: fmt.Sprintf("decode error: %v", err)}
	}
	latency := time.Since(start)

	if !sr.Success {
		msg := fmt.Sprintf("status %d", resp.StatusCode)
		if sr.Error != nil {
			msg = sr.Error.Code + ": " + sr.Error.Message
		}
		return sample{err: msg}
	}
	return sample{latency: latency, hashingUs: sr.Timing.HashingUs}
}

// percentile expects sorted input.
func percentile(sorted []time.Duration, p float64) float64 {
	idx := min(int(float64(len(sorted))*p), len(sorted)-1)
	return float64(sorted[idx].Microseconds()) / 1000
}

func printTable(results []scenarioResult) {
	fmt.Println(strings.Repeat("─", 85))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Scenario\tTokenizer\tReq/s\tp50\tp95\tHashing\tFailed\n")
	fmt.Fprintf(w, "────────\t─────────\t─────\t───\t───\t───────\t──────\n")

	for _, r := range results {
		if r.Failures == r.Requests {
			fmt.Fprintf(w, "%s\t%s\tFAILED\t-\t-\t-\t%d\n", r.Label, r.Tokenizer, r.Failures)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%.0f\t%.2fms\t%.2fms\t%.0fµs\t%d\n",
			r.Label, r.Tokenizer, r.RequestsPerS, r.P50Ms, r.P95Ms, r.AvgHashingUs, r.Failures)
	}

	w.Flush()
	fmt.Println(strings.Repeat("─", 85))
}

func writeJSON(path string, report benchmarkReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
