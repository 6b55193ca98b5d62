package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/nsharkey/classquest/pkg/game"
)

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusServiceUnavailable
}

// uploadDocument sends the lesson file to the API's extraction endpoint
// and returns the plain text it produced.
func uploadDocument(client *http.Client, baseURL string, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/v1/uploads", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			return "", fmt.Errorf("%s", errResp.Error)
		}
		return "", fmt.Errorf("upload failed with status %d", resp.StatusCode)
	}

	var uploadResp struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(body, &uploadResp); err != nil {
		return "", fmt.Errorf("failed to parse upload response: %w", err)
	}
	return uploadResp.Content, nil
}

// generateRequest mirrors the API's POST /v1/games body.
type generateRequest struct {
	Content        string `json:"content"`
	Objective      string `json:"objective"`
	Taxonomy       string `json:"taxonomy,omitempty"`
	Mode           string `json:"mode,omitempty"`
	PreferredGenre string `json:"preferred_genre,omitempty"`
}

// generateGame runs the full generation pipeline server-side and returns
// the playable game. This call spans every retry strategy, so it can
// take a while; the client timeout in main covers the worst case.
func generateGame(client *http.Client, baseURL string, cfg *ConsoleConfig, content string) (*game.GameData, error) {
	reqBody, err := json.Marshal(generateRequest{
		Content:        content,
		Objective:      cfg.Objective,
		Taxonomy:       cfg.Taxonomy,
		Mode:           cfg.Mode,
		PreferredGenre: cfg.Genre,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/v1/games", bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			return nil, fmt.Errorf("%s", errResp.Error)
		}
		return nil, fmt.Errorf("generation failed with status %d", resp.StatusCode)
	}

	var gd game.GameData
	if err := json.Unmarshal(body, &gd); err != nil {
		return nil, fmt.Errorf("failed to parse game: %w", err)
	}
	return &gd, nil
}
