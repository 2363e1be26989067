package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

// Walks a running instance through the chat and material endpoints.
// BASE_URL defaults to http://localhost:3000/api.

func baseURL() string {
	if v := os.Getenv("BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:3000/api"
}

func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

func sendRequest(method, path string, body interface{}) (*http.Response, map[string]interface{}, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL()+path, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 90 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, err
	}
	var decoded map[string]interface{}
	_ = json.Unmarshal(raw, &decoded)
	return resp, decoded, nil
}

func step(title, method, path string, body interface{}) map[string]interface{} {
	color.Yellow("\n%s", title)
	resp, decoded, err := sendRequest(method, path, body)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if resp.StatusCode >= 400 {
		color.Red("Status: %s", resp.Status)
	} else {
		color.Green("Status: %s", resp.Status)
	}
	return decoded
}

func main() {
	color.Cyan("Onboarding chat smoke test against %s", baseURL())
	sessionID := fmt.Sprintf("smoke-%d", time.Now().Unix())

	prettyPrint(step("1. Health", http.MethodGet, "/chat/v1/health", nil))

	created := step("2. Create training material", http.MethodPost, "/training-materials/v1", map[string]interface{}{
		"title":    "Smoke Test Leave Policy",
		"category": "HR",
		"content":  "Employees get 20 vacation days per year. Requests go through the HR portal.",
	})
	var materialID string
	if data, ok := created["data"].(map[string]interface{}); ok {
		materialID, _ = data["id"].(string)
	}

	welcome := step("3. Welcome", http.MethodPost, "/chat/v1/welcome/"+sessionID, nil)
	if data, ok := welcome["data"].(map[string]interface{}); ok {
		fmt.Printf("Welcome: %s\n", data["response"])
	}

	reply := step("4. Ask about vacation", http.MethodPost, "/chat/v1/send", map[string]interface{}{
		"session_id": sessionID,
		"message":    "How many vacation days do I get?",
	})
	if data, ok := reply["data"].(map[string]interface{}); ok {
		fmt.Printf("Reply: %s\n", data["response"])
	}

	history := step("5. History", http.MethodGet, "/chat/v1/history/"+sessionID, nil)
	if data, ok := history["data"].([]interface{}); ok {
		fmt.Printf("Messages: %d\n", len(data))
	}

	if materialID != "" {
		step("6. Cleanup: delete material", http.MethodDelete, "/training-materials/v1/"+materialID, nil)
	} else {
		color.Red("\nSkipping cleanup: material was not created")
	}

	color.Cyan("\nDone.")
}
