package embedding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type CohereProvider struct {
	ApiKey string
	Client *http.Client
}

func NewCohereProvider(apiKey string) *CohereProvider {
	return &CohereProvider{
		ApiKey: apiKey,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *CohereProvider) Name() string {
	return "cohere"
}

// --- Request/Response structs (Internal to this package) ---

type cohereEmbedRequest struct {
	Texts     []string `json:"texts"`
	Model     string   `json:"model"`
	InputType string   `json:"input_type"`
}

type cohereEmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

func (p *CohereProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	inputType := "search_document"
	if taskType == TaskRetrievalQuery {
		inputType = "search_query"
	}

	cohereReq := cohereEmbedRequest{
		Texts:     []string{text},
		Model:     "embed-english-v3.0",
		InputType: inputType,
	}
	cohereReqJson, err := json.Marshal(cohereReq)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(
		"POST",
		"https://api.cohere.com/v1/embed",
		bytes.NewBuffer(cohereReqJson),
	)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resByte, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error from cohere response, code %d, body %s", res.StatusCode, string(resByte))
	}

	var resEmbedding cohereEmbedResponse
	err = json.Unmarshal(resByte, &resEmbedding)
	if err != nil {
		return nil, err
	}

	if len(resEmbedding.Embeddings) == 0 {
		return nil, fmt.Errorf("cohere returned no embeddings")
	}

	return &EmbeddingResponse{Values: resEmbedding.Embeddings[0]}, nil
}
