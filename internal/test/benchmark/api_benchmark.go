// Package benchmark 并发压测 HTTP 接口, 统计耗时与状态码分布
package benchmark

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"
)

// APIBenchmark 定义API基准测试结构
type APIBenchmark struct {
	BaseURL     string
	Concurrency int
	Requests    int
	AuthToken   string
	Client      *http.Client
}

// BenchmarkResult 定义基准测试结果
type BenchmarkResult struct {
	URL            string        `json:"url"`
	Method         string        `json:"method"`
	Concurrency    int           `json:"concurrency"`
	TotalRequests  int           `json:"total_requests"`
	SuccessCount   int           `json:"success_count"`
	FailureCount   int           `json:"failure_count"`
	TotalTime      time.Duration `json:"total_time"`
	AverageTime    time.Duration `json:"average_time"`
	MinTime        time.Duration `json:"min_time"`
	MaxTime        time.Duration `json:"max_time"`
	P95Time        time.Duration `json:"p95_time"`
	RequestsPerSec float64       `json:"requests_per_sec"`
	StatusCodes    map[int]int   `json:"status_codes"`
	Errors         []string      `json:"errors"`
	Bodies         [][]byte      `json:"-"` // 成功响应的响应体
}

// RequestResult 定义单个请求的结果
type RequestResult struct {
	Duration   time.Duration
	StatusCode int
	Body       []byte
	Error      error
}

// NewAPIBenchmark 创建新的API基准测试实例
func NewAPIBenchmark(baseURL string, concurrency, requests int, authToken string) *APIBenchmark {
	return &APIBenchmark{
		BaseURL:     baseURL,
		Concurrency: concurrency,
		Requests:    requests,
		AuthToken:   authToken,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// RunGET 执行GET请求的基准测试
func (b *APIBenchmark) RunGET(path string) *BenchmarkResult {
	return b.runTest(http.MethodGet, b.BaseURL+path, nil)
}

// RunPOST 执行POST请求的基准测试
func (b *APIBenchmark) RunPOST(path string, payload interface{}) *BenchmarkResult {
	return b.runJSON(http.MethodPost, path, payload)
}

// RunPUT 执行PUT请求的基准测试
func (b *APIBenchmark) RunPUT(path string, payload interface{}) *BenchmarkResult {
	return b.runJSON(http.MethodPut, path, payload)
}

// RunDELETE 执行DELETE请求的基准测试
func (b *APIBenchmark) RunDELETE(path string) *BenchmarkResult {
	return b.runTest(http.MethodDelete, b.BaseURL+path, nil)
}

func (b *APIBenchmark) runJSON(method, path string, payload interface{}) *BenchmarkResult {
	url := b.BaseURL + path
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return &BenchmarkResult{
			URL:    url,
			Method: method,
			Errors: []string{fmt.Sprintf("JSON编码错误: %v", err)},
		}
	}
	return b.runTest(method, url, jsonData)
}

// do 发送单个请求
func (b *APIBenchmark) do(method, url string, payload []byte) RequestResult {
	start := time.Now()
	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	if err != nil {
		return RequestResult{Error: err}
	}

	req.Header.Set("Content-Type", "application/json")
	if b.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+b.AuthToken)
	}

	resp, err := b.Client.Do(req)
	if err != nil {
		return RequestResult{Error: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return RequestResult{Error: err}
	}
	return RequestResult{
		Duration:   time.Since(start),
		StatusCode: resp.StatusCode,
		Body:       body,
	}
}

// runTest 执行基准测试
func (b *APIBenchmark) runTest(method, url string, payload []byte) *BenchmarkResult {
	results := make(chan RequestResult, b.Requests)
	var wg sync.WaitGroup
	limiter := make(chan struct{}, b.Concurrency)

	startTime := time.Now()

	// 创建工作池
	for i := 0; i < b.Requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			limiter <- struct{}{}
			defer func() { <-limiter }()
			results <- b.do(method, url, payload)
		}()
	}

	// 等待所有请求完成
	go func() {
		wg.Wait()
		close(results)
	}()

	result := &BenchmarkResult{
		URL:           url,
		Method:        method,
		Concurrency:   b.Concurrency,
		TotalRequests: b.Requests,
		StatusCodes:   make(map[int]int),
	}

	// 收集结果
	var durations []time.Duration
	var totalTime time.Duration
	for r := range results {
		if r.Error != nil {
			result.FailureCount++
			result.Errors = append(result.Errors, r.Error.Error())
			continue
		}

		totalTime += r.Duration
		durations = append(durations, r.Duration)
		result.StatusCodes[r.StatusCode]++
		if r.StatusCode >= 200 && r.StatusCode < 300 {
			result.SuccessCount++
			result.Bodies = append(result.Bodies, r.Body)
		} else {
			result.FailureCount++
		}
	}

	result.TotalTime = time.Since(startTime)
	if result.TotalTime > 0 {
		result.RequestsPerSec = float64(b.Requests) / result.TotalTime.Seconds()
	}
	if n := len(durations); n > 0 {
		sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
		result.AverageTime = totalTime / time.Duration(n)
		result.MinTime = durations[0]
		result.MaxTime = durations[n-1]
		result.P95Time = durations[(n*95-1)/100]
	}
	return result
}

// String 基准测试结果摘要
func (r *BenchmarkResult) String() string {
	return fmt.Sprintf("%s %s: %d/%d ok, avg=%s p95=%s max=%s, %.2f req/s, codes=%v",
		r.Method, r.URL, r.SuccessCount, r.TotalRequests,
		r.AverageTime, r.P95Time, r.MaxTime, r.RequestsPerSec, r.StatusCodes)
}
