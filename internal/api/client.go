package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultTimeout  = 15 * time.Second
	requestIDHeader = "X-Request-ID"
)

// validate общий валидатор тел запросов (потокобезопасен)
var validate = validator.New()

// Client REST-клиент бэкенда проката.
// Авторизация через cookie сессии, поэтому у каждого оператора свой Client.
type Client struct {
	baseURL *url.URL
	timeout time.Duration
	logger  *zap.Logger

	mu   sync.RWMutex
	http *http.Client
}

// NewClient создаёт клиент с пустой cookie-сессией
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		baseURL: u,
		timeout: timeout,
		logger:  logger,
	}
	c.http = c.newHTTPClient()

	return c, nil
}

func (c *Client) newHTTPClient() *http.Client {
	// cookiejar.New без PublicSuffixList не возвращает ошибку
	jar, _ := cookiejar.New(nil)
	return &http.Client{
		Timeout: c.timeout,
		Jar:     jar,
	}
}

// Cookies cookie сессии для сохранения в БД
func (c *Client) Cookies() []model.StoredCookie {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cookies := c.http.Jar.Cookies(c.baseURL)
	stored := make([]model.StoredCookie, 0, len(cookies))
	for _, ck := range cookies {
		stored = append(stored, model.StoredCookie{Name: ck.Name, Value: ck.Value})
	}
	return stored
}

// RestoreCookies восстанавливает сессию после перезапуска
func (c *Client) RestoreCookies(stored []model.StoredCookie) {
	cookies := make([]*http.Cookie, 0, len(stored))
	for _, s := range stored {
		cookies = append(cookies, &http.Cookie{Name: s.Name, Value: s.Value, Path: "/"})
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	c.http.Jar.SetCookies(c.baseURL, cookies)
}

// ResetCookies забывает сессию
func (c *Client) ResetCookies() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.http = c.newHTTPClient()
}

func (c *Client) httpClient() *http.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.http
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// do выполняет запрос по контракту бэкенда:
// 2xx -> JSON в out (204 -> пусто), иначе {message} -> *RemoteError,
// сбой транспорта -> *NetworkError
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		payload = bytes.NewReader(data)
	}

	endpoint := c.baseURL.String() + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", method, path, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)

	started := time.Now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		c.logger.Warn("Backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return &NetworkError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Method: method, Path: path, Err: fmt.Errorf("read body: %w", err)}
	}

	c.logger.Debug("Backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(started)),
		zap.String("request_id", requestID))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var rejection struct {
			Message string `json:"message"`
		}
		// Тело может быть не JSON (прокси, HTML-страница ошибки)
		_ = json.Unmarshal(data, &rejection)

		remote := &RemoteError{
			StatusCode: resp.StatusCode,
			Message:    remoteMessage(resp.StatusCode, rejection.Message),
			RequestID:  requestID,
		}
		c.logger.Info("Backend rejected request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", remote.Message),
			zap.String("request_id", requestID))
		return remote
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}

	return nil
}

// checkPayload проверяет тело запроса по тегам validate
func checkPayload(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

func escape(id string) string {
	return url.PathEscape(id)
}
