package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Config holds the benchmark settings
var (
	targetURL   string
	concurrency int
	duration    time.Duration
	badRatio    float64
)

// Metrics
var (
	totalRequests uint64
	loginOK       uint64 // redirected to dashboard
	loginRejected uint64 // re-rendered login page
	failOther     uint64
)

func init() {
	flag.StringVar(&targetURL, "url", "http://localhost:8080", "Server base URL")
	flag.IntVar(&concurrency, "workers", 10, "Number of concurrent workers")
	flag.DurationVar(&duration, "duration", 30*time.Second, "Test duration")
	flag.Float64Var(&badRatio, "bad-ratio", 0.2, "Fraction of logins sent with a wrong password")
}

// The login path is the expensive one: every attempt pays a bcrypt
// verification, so this measures authentication throughput.
func main() {
	flag.Parse()
	log.Printf("Starting Benchmark | Workers: %d | Duration: %s | Bad ratio: %.2f", concurrency, duration, badRatio)

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(concurrency)

	for i := 0; i < concurrency; i++ {
		go worker(&wg, i, start)
	}

	wg.Wait()
	printResults(time.Since(start))
}

func worker(wg *sync.WaitGroup, id int, start time.Time) {
	defer wg.Done()
	client := &http.Client{
		Timeout: 5 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	username := fmt.Sprintf("benchuser%d%d", id, start.UnixNano()%100000)
	password := "benchpass123"

	// Each worker registers its own credential once up front.
	resp, err := client.PostForm(targetURL+"/register", url.Values{
		"username": {username},
		"password": {password},
	})
	if err != nil {
		log.Printf("worker %d: registration failed: %v", id, err)
		return
	}
	resp.Body.Close()

	n := 0
	for time.Since(start) < duration {
		n++
		pw := password
		if badRatio > 0 && float64(n%100)/100 < badRatio {
			pw = "definitely-wrong"
		}

		resp, err := client.PostForm(targetURL+"/login", url.Values{
			"username": {username},
			"password": {pw},
		})
		if err != nil {
			atomic.AddUint64(&failOther, 1)
			continue
		}

		atomic.AddUint64(&totalRequests, 1)
		switch {
		case resp.StatusCode == 303 && strings.Contains(resp.Header.Get("Location"), "dashboard"):
			atomic.AddUint64(&loginOK, 1)
		case resp.StatusCode == 200:
			atomic.AddUint64(&loginRejected, 1)
		default:
			atomic.AddUint64(&failOther, 1)
		}
		resp.Body.Close()
	}
}

func printResults(d time.Duration) {
	total := atomic.LoadUint64(&totalRequests)
	ok := atomic.LoadUint64(&loginOK)
	rejected := atomic.LoadUint64(&loginRejected)
	fErr := atomic.LoadUint64(&failOther)

	tps := float64(total) / d.Seconds()

	results := map[string]interface{}{
		"duration_sec":   d.Seconds(),
		"total_requests": total,
		"logins_per_sec": tps,
		"login_ok":       ok,
		"login_rejected": rejected,
		"errors":         fErr,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(results)
}
