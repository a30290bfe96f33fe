package mymemory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"translate_bot/internal/config"
)

// DefaultBaseURL MyMemory 免费接口
const DefaultBaseURL = "https://api.mymemory.translated.net/get"

// Client 封装 MyMemory 翻译接口
// 不重试、不缓存，请求生命周期完全由调用方的 context 控制
type Client struct {
	baseURL    string
	email      string
	httpClient *http.Client
}

// Option 自定义客户端行为
type Option func(*Client)

// WithHTTPClient 自定义 HTTP 客户端（测试时使用）
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient 根据配置创建翻译客户端
func NewClient(cfg config.TranslatorConfig, opts ...Option) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid translator base url: %w", err)
	}

	client := &Client{
		baseURL:    baseURL,
		email:      strings.TrimSpace(cfg.Email),
		httpClient: &http.Client{},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// APIError 表示 MyMemory 返回的非 200 业务状态
type APIError struct {
	Status  int
	Details string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mymemory api error: status=%d, details=%s", e.Status, e.Details)
}

type translateResponse struct {
	ResponseStatus  responseStatus `json:"responseStatus"`
	ResponseDetails string         `json:"responseDetails"`
	ResponseData    struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
}

// responseStatus 接口有时返回数字 200，有时返回字符串 "403"
type responseStatus int

func (s *responseStatus) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if raw == "" || raw == "null" {
		*s = 0
		return nil
	}
	code, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid responseStatus %q: %w", raw, err)
	}
	*s = responseStatus(code)
	return nil
}

// Translate 将 text 从 from 翻译为 to，from 可为 "auto"
func (c *Client) Translate(ctx context.Context, text, from, to string) (string, error) {
	query := url.Values{}
	query.Set("q", text)
	query.Set("langpair", from+"|"+to)
	if c.email != "" {
		query.Set("de", c.email)
	}

	endpoint := c.baseURL
	if strings.Contains(endpoint, "?") {
		endpoint += "&" + query.Encode()
	} else {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create translate request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request mymemory api failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read mymemory response failed: %w", err)
	}

	var payload translateResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode mymemory response failed (http %d): %w", resp.StatusCode, err)
	}

	if payload.ResponseStatus != http.StatusOK {
		return "", &APIError{Status: int(payload.ResponseStatus), Details: truncate(payload.ResponseDetails, 256)}
	}

	translated := payload.ResponseData.TranslatedText
	if strings.TrimSpace(translated) == "" {
		return "", &APIError{Status: int(payload.ResponseStatus), Details: "empty translation"}
	}

	return translated, nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
