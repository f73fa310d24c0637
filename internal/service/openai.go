package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mercil/npa-search/internal/config"
	"github.com/mercil/npa-search/internal/utils"
)

// OpenAIClient talks to an OpenAI-compatible API for both intent extraction
// (chat completions) and embeddings.
type OpenAIClient struct {
	config     *config.AIConfig
	httpClient *http.Client
}

// NewOpenAIClient creates a new OpenAI-compatible client
func NewOpenAIClient(cfg *config.AIConfig) *OpenAIClient {
	return &OpenAIClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// IsEnabled returns whether the client is configured and ready
func (c *OpenAIClient) IsEnabled() bool {
	return c.config.Enabled
}

// ChatCompletionRequest represents a chat completion request
type ChatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []ChatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// ChatMessage represents a single message in the conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponseFormat specifies the format of the response
type ResponseFormat struct {
	Type string `json:"type"` // "json_object" or "text"
}

// ChatCompletionResponse represents the chat API response
type ChatCompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int         `json:"index"`
		Message      ChatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// EmbeddingRequest represents an embedding request
type EmbeddingRequest struct {
	Model          string   `json:"model"`
	Input          []string `json:"input"`
	Dimensions     int      `json:"dimensions,omitempty"`
	EncodingFormat string   `json:"encoding_format,omitempty"`
}

// EmbeddingResponse represents the embedding API response
type EmbeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Model string `json:"model"`
}

// intentSystemPrompt instructs the model to extract structured filters from
// a Thai real-estate query and answer with JSON only. Prices are in baht.
const intentSystemPrompt = `คุณคือระบบช่วยค้นหาอสังหาริมทรัพย์จากฐานข้อมูล NPA

ให้คุณสรุป Intent ของคำค้นที่ผู้ใช้พิมพ์ แล้วตอบเป็น JSON ล้วน ๆ (ห้ามมีคำอธิบายอื่น)
โครงสร้าง JSON:

{
  "clean_query": "ข้อความที่เหมาะสำหรับ semantic search หลังตัดเงื่อนไขที่สกัดได้ออกแล้ว",
  "type_name": "ชื่อประเภททรัพย์ เช่น บ้านเดี่ยว, ทาวน์เฮ้าส์, ห้องชุดพักอาศัย หรือค่าว่างถ้าไม่ชัดเจน",
  "min_price": ตัวเลขราคาต่ำสุดเป็นบาท หรือ null,
  "max_price": ตัวเลขราคาสูงสุดเป็นบาท หรือ null,
  "location": "ทำเลหรือถนน เช่น ลาดพร้าว, บางแค, บางขุนเทียน หรือค่าว่าง"
}

กติกา:
- "ราคาไม่เกิน X" หรือ "ต่ำกว่า X" ให้ใส่ใน max_price
- "อย่างน้อย X" หรือ "มากกว่า X" ให้ใส่ใน min_price
- "X ล้าน" = X * 1000000, "X แสน" = X * 100000
- ถ้าไม่รู้ค่าราคา ให้ใส่ null ใน field นั้น
- ถ้าไม่รู้ประเภททรัพย์ ให้ type_name เป็นค่าว่าง ""
- อย่าใส่ comment หรือข้อความอื่นนอกจาก JSON

ตัวอย่าง:
คำค้น: "คอนโด ลาดพร้าว"
ตอบ: {"clean_query": "ลาดพร้าว", "type_name": "ห้องชุดพักอาศัย", "min_price": null, "max_price": null, "location": "ลาดพร้าว"}

คำค้น: "บ้านเดี่ยว ราคาต่ำกว่า 3 ล้าน"
ตอบ: {"clean_query": "บ้านเดี่ยว", "type_name": "บ้านเดี่ยว", "min_price": null, "max_price": 3000000, "location": ""}`

// ExtractIntent uses the LLM to parse a natural-language query into
// structured filter hints plus a cleaned semantic phrase.
func (c *OpenAIClient) ExtractIntent(ctx context.Context, query string) (*IntentExtraction, error) {
	if !c.config.Enabled {
		return nil, fmt.Errorf("AI API is not enabled (missing API key)")
	}

	req := ChatCompletionRequest{
		Model: c.config.ChatModel,
		Messages: []ChatMessage{
			{Role: "system", Content: intentSystemPrompt},
			{Role: "user", Content: query},
		},
		Temperature:    c.config.ChatTemperature,
		MaxTokens:      c.config.ChatMaxTokens,
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	}

	resp, err := c.chatCompletion(ctx, req)
	if err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in chat response")
	}

	var result IntentExtraction
	if err := utils.DecodeModelJSON(resp.Choices[0].Message.Content, &result); err != nil {
		return nil, fmt.Errorf("failed to parse intent response: %w", err)
	}

	return &result, nil
}

// CreateEmbedding creates an embedding vector for a single text
func (c *OpenAIClient) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if !c.config.Enabled {
		return nil, fmt.Errorf("AI API is not enabled (missing API key)")
	}

	req := EmbeddingRequest{
		Model:          c.config.EmbeddingModel,
		Input:          []string{text},
		Dimensions:     c.config.EmbeddingDimensions,
		EncodingFormat: "float",
	}

	var result EmbeddingResponse
	if err := c.post(ctx, "/embeddings", req, &result); err != nil {
		return nil, err
	}

	if len(result.Data) == 0 {
		return nil, fmt.Errorf("no embedding in response")
	}

	return result.Data[0].Embedding, nil
}

// chatCompletion performs a chat completion request
func (c *OpenAIClient) chatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	var result ChatCompletionResponse
	if err := c.post(ctx, "/chat/completions", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// post sends a JSON request to the provider and decodes the JSON response
func (c *OpenAIClient) post(ctx context.Context, path string, payload any, target any) error {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.config.APIBase + path
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API request to %s failed with status %d: %s", path, resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}
