package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type toolCase struct {
	Name         string            `json:"name"`
	Method       string            `json:"method"`
	Path         string            `json:"path"`
	Headers      map[string]string `json:"headers"`
	Body         json.RawMessage   `json:"body"`
	ExpectStatus int               `json:"expect_status"`
	ExpectCode   string            `json:"expect_code"`
	Critical     bool              `json:"critical"`
}

type caseFile struct {
	Cases []toolCase `json:"cases"`
}

type result struct {
	Case     toolCase
	HTTP     int
	Envelope int
	Code     string
	Passed   bool
	Error    error
	Duration time.Duration
}

func main() {
	var (
		base      string
		casesPath string
		secret    string
		timeout   time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "Tool server base URL")
	flag.StringVar(&casesPath, "cases", filepath.Join("scripts", "tool_smoke", "cases.json"), "Path to JSON cases file")
	flag.StringVar(&secret, "jwt-secret", os.Getenv("TOOLS_JWT_SECRET"), "Secret used to sign the webhook bearer token")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP client timeout")
	flag.Parse()

	cases, err := loadCases(casesPath)
	if err != nil {
		log.Fatalf("failed to load cases: %v", err)
	}

	token, err := bearerToken(secret, time.Now())
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	results := make([]result, 0, len(cases))
	var breaking, optional int
	for _, tc := range cases {
		res := runCase(client, base, token, tc)
		if !res.Passed {
			if tc.Critical {
				breaking++
			} else {
				optional++
			}
		}
		results = append(results, res)
	}

	printReport(results)

	fmt.Printf("Critical failures: %d, Other failures: %d\n", breaking, optional)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadCases(path string) ([]toolCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file caseFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Cases) == 0 {
		return nil, fmt.Errorf("no cases defined in %s", path)
	}
	return file.Cases, nil
}

// bearerToken returns "" when no secret is configured.
func bearerToken(secret string, now time.Time) (string, error) {
	if secret == "" {
		return "", nil
	}
	claims := jwt.RegisteredClaims{
		Subject:   "tool-smoke",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(5 * time.Minute)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func runCase(client *http.Client, base, token string, tc toolCase) result {
	res := result{Case: tc}
	if client == nil {
		res.Error = errors.New("nil client")
		return res
	}

	method := strings.ToUpper(strings.TrimSpace(tc.Method))
	if method == "" {
		method = http.MethodPost
	}
	path := tc.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var body io.Reader
	if len(tc.Body) > 0 {
		body = bytes.NewReader(tc.Body)
	}
	req, err := http.NewRequest(method, strings.TrimRight(base, "/")+path, body)
	if err != nil {
		res.Error = err
		return res
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range tc.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		res.Error = err
		return res
	}
	defer resp.Body.Close()
	res.Duration = time.Since(start)
	res.HTTP = resp.StatusCode

	var envelope struct {
		Status int    `json:"status"`
		Code   string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		res.Error = fmt.Errorf("decode envelope: %w", err)
		return res
	}
	res.Envelope = envelope.Status
	res.Code = envelope.Code

	res.Passed = res.HTTP == res.Envelope && res.HTTP == tc.ExpectStatus &&
		(tc.ExpectCode == "" || tc.ExpectCode == res.Code)
	return res
}

func printReport(results []result) {
	fmt.Println("Tool Smoke Report")
	fmt.Println("=================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if !res.Passed {
			status = "FAIL"
		}
		fmt.Printf("[%s] %s %s %s\n", status, res.Case.Name, res.Case.Method, res.Case.Path)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
			continue
		}
		fmt.Printf("  HTTP: %d | Envelope: %d | Code: %q | Expected: %d %q (%s)\n",
			res.HTTP, res.Envelope, res.Code, res.Case.ExpectStatus, res.Case.ExpectCode, res.Duration)
	}
}
