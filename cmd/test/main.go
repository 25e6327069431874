package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorPurple = "\033[35m"
	colorCyan   = "\033[36m"
)

const defaultIdea = "AI compliance tool for architecture firms"

var (
	baseURL string
	idea    string
	content string
)

type TestClient struct {
	baseURL string
	client  *http.Client
}

func NewTestClient(baseURL string) *TestClient {
	return &TestClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

var rootCmd = &cobra.Command{
	Use:   "gtm-smoke",
	Short: "Smoke tests against a running GTM Studio server",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		printHeader("GTM Studio - Test Suite")
		fmt.Printf("%sBase URL: %s%s\n\n", colorCyan, baseURL, colorReset)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return NewTestClient(baseURL).runAllTests()
	},
}

func check(ok bool) error {
	if !ok {
		return fmt.Errorf("test failed")
	}
	return nil
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check /health",
	RunE: func(cmd *cobra.Command, args []string) error {
		return check(NewTestClient(baseURL).testHealthCheck())
	},
}

var agentCardCmd = &cobra.Command{
	Use:   "agent-card",
	Short: "Fetch and validate the A2A agent card",
	RunE: func(cmd *cobra.Command, args []string) error {
		return check(NewTestClient(baseURL).testAgentCard())
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Generate an ICP over the A2A endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		return check(NewTestClient(baseURL).testA2AProfile(idea))
	},
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Run the generate → select → analyze → revise loop over the session API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return check(NewTestClient(baseURL).testSessionLoop(idea, content))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the server")
	rootCmd.PersistentFlags().StringVar(&idea, "idea", defaultIdea, "Vertical description for profile generation")
	sessionCmd.Flags().StringVar(&content, "content", "Buy our tool now", "Creative content to analyze")

	rootCmd.AddCommand(healthCmd, agentCardCmd, profileCmd, sessionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func (tc *TestClient) runAllTests() error {
	tests := []struct {
		name string
		fn   func() bool
	}{
		{"Health Check", tc.testHealthCheck},
		{"Agent Card", tc.testAgentCard},
		{"A2A Profile Generation", func() bool { return tc.testA2AProfile(idea) }},
		{"Session Loop", func() bool { return tc.testSessionLoop(idea, "Buy our tool now") }},
	}

	passed := 0
	failed := 0

	for _, test := range tests {
		if test.fn() {
			passed++
		} else {
			failed++
		}
		fmt.Println()
	}

	printHeader("Test Summary")
	fmt.Printf("%sPassed: %d%s\n", colorGreen, passed, colorReset)
	fmt.Printf("%sFailed: %d%s\n", colorRed, failed, colorReset)
	fmt.Printf("Total: %d\n", passed+failed)

	if failed > 0 {
		return fmt.Errorf("%d test(s) failed", failed)
	}
	return nil
}

func (tc *TestClient) testHealthCheck() bool {
	printTestHeader("Testing Health Check Endpoint")

	resp, body, err := tc.do(http.MethodGet, "/health", nil)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	if resp.StatusCode != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", resp.StatusCode))
		return false
	}
	if string(body) != "OK" {
		printError(fmt.Sprintf("Expected body 'OK', got '%s'", string(body)))
		return false
	}

	printSuccess("Health check passed")
	return true
}

func (tc *TestClient) testAgentCard() bool {
	printTestHeader("Testing Agent Card Endpoint")

	resp, body, err := tc.do(http.MethodGet, "/.well-known/agent.json", nil)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	if resp.StatusCode != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", resp.StatusCode))
		fmt.Printf("Response: %s\n", string(body))
		return false
	}

	var agentCard map[string]interface{}
	if err := json.Unmarshal(body, &agentCard); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return false
	}

	requiredFields := []string{"name", "description", "version", "capabilities", "endpoints"}
	for _, field := range requiredFields {
		if _, ok := agentCard[field]; !ok {
			printError(fmt.Sprintf("Missing required field: %s", field))
			return false
		}
	}

	printSuccess("Agent card is valid")
	printJSON(body)
	return true
}

func (tc *TestClient) testA2AProfile(description string) bool {
	printTestHeader("Testing A2A Profile Generation")
	fmt.Printf("%sVertical:%s %s\n\n", colorCyan, colorReset, description)

	request := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      fmt.Sprintf("test-%d", time.Now().Unix()),
		"method":  "message/send",
		"params": map[string]interface{}{
			"message": map[string]interface{}{
				"kind": "message",
				"role": "user",
				"parts": []map[string]interface{}{
					{"kind": "text", "text": description},
				},
			},
			"configuration": map[string]interface{}{
				"blocking":            true,
				"acceptedOutputModes": []string{"text", "data"},
			},
		},
	}

	resp, body, err := tc.do(http.MethodPost, "/a2a/profiler", request)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	if resp.StatusCode != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", resp.StatusCode))
		return false
	}

	var response struct {
		Error  map[string]interface{} `json:"error"`
		Result struct {
			Status struct {
				State   string `json:"state"`
				Message struct {
					Parts []struct {
						Text string `json:"text"`
					} `json:"parts"`
				} `json:"message"`
			} `json:"status"`
			Artifacts []interface{} `json:"artifacts"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return false
	}
	if response.Error != nil {
		printError("Request returned an error")
		printJSON(body)
		return false
	}
	if state := response.Result.Status.State; state != "completed" {
		printError(fmt.Sprintf("Expected state 'completed', got '%s'", state))
		return false
	}

	printSuccess("Profile generation completed successfully")
	fmt.Printf("\n%sGenerated Profile:%s\n", colorGreen, colorReset)
	fmt.Println(strings.Repeat("=", 80))
	for _, part := range response.Result.Status.Message.Parts {
		fmt.Println(part.Text)
	}
	fmt.Println(strings.Repeat("=", 80))

	if len(response.Result.Artifacts) > 0 {
		fmt.Printf("\n%sArtifacts:%s %d\n", colorPurple, colorReset, len(response.Result.Artifacts))
	}
	return true
}

func (tc *TestClient) testSessionLoop(description, creative string) bool {
	printTestHeader("Testing Session Loop")

	var created struct {
		ID string `json:"id"`
	}
	if !tc.step("create session", http.MethodPost, "/api/sessions", nil, http.StatusCreated, &created) {
		return false
	}
	base := "/api/sessions/" + created.ID

	var gen struct {
		Result struct {
			Role string `json:"role"`
		} `json:"result"`
	}
	if !tc.step("generate ICP", http.MethodPost, base+"/icp/generate", map[string]string{"description": description}, http.StatusOK, &gen) {
		return false
	}
	fmt.Printf("  role: %s\n", gen.Result.Role)

	if !tc.step("use as context", http.MethodPost, base+"/icp/select", nil, http.StatusOK, nil) {
		return false
	}

	var fb struct {
		Feedback struct {
			Score          int    `json:"score"`
			RevisedContent string `json:"revisedContent"`
		} `json:"feedback"`
		Band string `json:"band"`
	}
	if !tc.step("analyze", http.MethodPost, base+"/creative/analyze", map[string]string{"content": creative}, http.StatusOK, &fb) {
		return false
	}
	fmt.Printf("  score: %d (%s)\n", fb.Feedback.Score, fb.Band)

	if fb.Feedback.RevisedContent == "" {
		printSuccess("Session loop completed (no revision offered)")
		return true
	}
	if !tc.step("apply revision", http.MethodPost, base+"/creative/revision", nil, http.StatusOK, nil) {
		return false
	}

	printSuccess("Session loop completed successfully")
	return true
}

// step performs one request, checks the status and decodes the body into out when given.
func (tc *TestClient) step(name, method, path string, payload interface{}, want int, out interface{}) bool {
	fmt.Printf("%s%s %s%s\n", colorYellow, method, path, colorReset)
	resp, body, err := tc.do(method, path, payload)
	if err != nil {
		printError(fmt.Sprintf("%s: request failed: %v", name, err))
		return false
	}
	if resp.StatusCode != want {
		printError(fmt.Sprintf("%s: expected status %d, got %d", name, want, resp.StatusCode))
		printJSON(body)
		return false
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			printError(fmt.Sprintf("%s: invalid JSON response: %v", name, err))
			return false
		}
	}
	printSuccess(name)
	return true
}

func (tc *TestClient) do(method, path string, payload interface{}) (*http.Response, []byte, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, tc.baseURL+path, reader)
	if err != nil {
		return nil, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := tc.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	return resp, body, err
}

func printHeader(text string) {
	fmt.Printf("\n%s%s%s\n", colorBlue, strings.Repeat("=", len(text)+4), colorReset)
	fmt.Printf("%s= %s =%s\n", colorBlue, text, colorReset)
	fmt.Printf("%s%s%s\n\n", colorBlue, strings.Repeat("=", len(text)+4), colorReset)
}

func printTestHeader(text string) {
	fmt.Printf("%s[TEST] %s%s\n", colorCyan, text, colorReset)
	fmt.Println(strings.Repeat("-", 80))
}

func printSuccess(text string) {
	fmt.Printf("%s✓ %s%s\n", colorGreen, text, colorReset)
}

func printError(text string) {
	fmt.Printf("%s✗ %s%s\n", colorRed, text, colorReset)
}

func printJSON(data []byte) {
	var prettyJSON bytes.Buffer
	if err := json.Indent(&prettyJSON, data, "", "  "); err == nil {
		fmt.Printf("\n%sResponse:%s\n%s\n", colorYellow, colorReset, prettyJSON.String())
	}
}
