package uploader

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

type gitHubUploadRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha,omitempty"`
}

type gitHubContentsResponse struct {
	SHA string `json:"sha"`
}

// UploadToGitHub commits a local file to the given repository path through
// the GitHub contents API, replacing the file if it already exists.
func UploadToGitHub(token, repo, path, filename, message string) error {
	fileContent, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("error reading file: %v", err)
	}

	uploadURL := fmt.Sprintf("https://api.github.com/repos/%s/contents/%s", repo, path)
	body := gitHubUploadRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(fileContent),
		SHA:     existingSHA(token, uploadURL),
	}
	bodyJSON, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("error marshalling JSON: %v", err)
	}

	req, err := http.NewRequest("PUT", uploadURL, bytes.NewBuffer(bodyJSON))
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("error uploading to GitHub, status code: %d, response: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// existingSHA fetches the blob sha of the current file version, required by
// the contents API when updating. Empty when the file does not exist yet.
func existingSHA(token, contentsURL string) string {
	req, err := http.NewRequest("GET", contentsURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var contents gitHubContentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&contents); err != nil {
		return ""
	}
	return contents.SHA
}
