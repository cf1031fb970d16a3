// discoverctl runs a discovery against a local Prospector server and
// prints the resulting prospects as a table. Development tool for
// tuning category tables and extraction strategies.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"
)

var (
	apiURL     = flag.String("api-url", "http://localhost:8080", "Prospector API base URL")
	apiKey     = flag.String("api-key", "", "API key for authenticated requests")
	categories = flag.String("categories", "treatment_center", "Comma-separated prospect categories")
	location   = flag.String("location", "", "Geographic focus, e.g. 'Boston, MA'")
	maxResults = flag.Int("max-results", 25, "Maximum prospects to return")
	queryOnly  = flag.Bool("query-only", false, "Print the search query and exit without running discovery")
)

type discoverRequest struct {
	Categories []string `json:"categories"`
	Location   string   `json:"location,omitempty"`
	MaxResults int      `json:"max_results,omitempty"`
	AutoScore  bool     `json:"auto_score"`
}

type prospect struct {
	Name         string `json:"name"`
	Title        string `json:"title"`
	Organization string `json:"organization"`
	FitScore     int    `json:"fit_score"`
	Contact      struct {
		Email string `json:"email"`
		Phone string `json:"phone"`
	} `json:"contact"`
	SourceURL string `json:"source_url"`
}

type discoverResult struct {
	Success         bool       `json:"success"`
	TotalFound      int        `json:"total_found"`
	Prospects       []prospect `json:"prospects"`
	SearchQueryUsed string     `json:"search_query_used"`
	URLsSearched    int        `json:"urls_searched"`
	URLsFailed      int        `json:"urls_failed"`
	NamesRejected   int        `json:"names_rejected"`
	PagesDuplicate  int        `json:"pages_duplicate"`
	Error           *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type job struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Result *discoverResult `json:"result"`
}

func main() {
	flag.Parse()

	cats := strings.Split(*categories, ",")
	for i := range cats {
		cats[i] = strings.TrimSpace(cats[i])
	}

	if *queryOnly {
		printQuery(cats)
		return
	}

	reqBody, _ := json.Marshal(discoverRequest{
		Categories: cats,
		Location:   *location,
		MaxResults: *maxResults,
		AutoScore:  true,
	})

	start := time.Now()
	var created job
	if err := post("/api/v1/discover", reqBody, &created); err != nil {
		fatal("start discovery: %v", err)
	}
	fmt.Printf("job %s started\n", created.ID)

	var finished job
	for {
		time.Sleep(2 * time.Second)
		if err := get("/api/v1/discover/"+created.ID, &finished); err != nil {
			fatal("poll job: %v", err)
		}
		if finished.Status != "processing" {
			break
		}
		fmt.Print(".")
	}
	fmt.Println()

	if finished.Result == nil {
		fatal("job %s finished with status %s and no result", created.ID, finished.Status)
	}
	res := finished.Result
	if res.Error != nil {
		fatal("discovery failed: %s: %s", res.Error.Code, res.Error.Message)
	}

	fmt.Printf("query: %s\n\n", res.SearchQueryUsed)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tNAME\tTITLE\tORGANIZATION\tEMAIL\tPHONE")
	for _, p := range res.Prospects {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			p.FitScore, p.Name, p.Title, p.Organization, p.Contact.Email, p.Contact.Phone)
	}
	w.Flush()

	fmt.Printf("\n%d prospects in %s (searched %d URLs, %d failed, %d duplicate pages, %d names rejected)\n",
		res.TotalFound, time.Since(start).Round(time.Second),
		res.URLsSearched, res.URLsFailed, res.PagesDuplicate, res.NamesRejected)
}

func printQuery(cats []string) {
	reqBody, _ := json.Marshal(map[string]any{
		"categories": cats,
		"location":   *location,
	})
	var parsed struct {
		Query string `json:"query"`
	}
	if err := post("/api/v1/query", reqBody, &parsed); err != nil {
		fatal("build query: %v", err)
	}
	fmt.Println(parsed.Query)
}

func post(path string, body []byte, out any) error {
	req, err := http.NewRequest(http.MethodPost, *apiURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return do(req, out)
}

func get(path string, out any) error {
	req, err := http.NewRequest(http.MethodGet, *apiURL+path, nil)
	if err != nil {
		return err
	}
	return do(req, out)
}

func do(req *http.Request, out any) error {
	if *apiKey != "" {
		req.Header.Set("X-API-Key", *apiKey)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return json.Unmarshal(data, out)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
