// Package backend talks to the remote training API that owns the catalog,
// personalized test sessions and answer/result history.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"beverage-quiz-service/internal/domain"
)

var ErrServiceUnavailable = errors.New("training backend unavailable")

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// Client implements the catalog loader, remote question source, answer
// submitter and result persister against the backend's JSON API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type catalogResponse struct {
	Items []domain.CatalogItem `json:"items"`
}

type startSessionRequest struct {
	UserID string `json:"userId"`
}

type startSessionResponse struct {
	SessionToken string `json:"sessionToken"`
}

type nextQuestionResponse struct {
	Question *domain.Question `json:"question"`
}

type answerRequest struct {
	UserID string `json:"userId"`
	domain.AnswerSubmission
}

type resultRequest struct {
	UserID string               `json:"userId"`
	Result domain.SessionResult `json:"result"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewClient(baseURL string, timeout time.Duration, httpClient *http.Client) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if httpClient == nil {
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (c *Client) LoadCatalog(ctx context.Context, category string) ([]domain.CatalogItem, error) {
	path := "/catalog"
	if trimmed := strings.TrimSpace(category); trimmed != "" {
		query := url.Values{}
		query.Set("category", trimmed)
		path += "?" + query.Encode()
	}

	var payload catalogResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

func (c *Client) StartSession(ctx context.Context, userID string) (string, error) {
	var payload startSessionResponse
	if err := c.doJSON(ctx, http.MethodPost, "/tests", startSessionRequest{UserID: userID}, &payload); err != nil {
		return "", err
	}
	if payload.SessionToken == "" {
		return "", errors.New("backend returned an empty session token")
	}
	return payload.SessionToken, nil
}

func (c *Client) NextQuestion(ctx context.Context, sessionToken string) (domain.Question, error) {
	var payload nextQuestionResponse
	path := "/tests/" + url.PathEscape(sessionToken) + "/next"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return domain.Question{}, err
	}
	if payload.Question == nil {
		return domain.Question{}, errors.New("backend returned no question")
	}
	return *payload.Question, nil
}

func (c *Client) SubmitAnswer(ctx context.Context, userID string, sub domain.AnswerSubmission) error {
	return c.doJSON(ctx, http.MethodPost, "/answers", answerRequest{UserID: userID, AnswerSubmission: sub}, nil)
}

func (c *Client) PersistResults(ctx context.Context, userID string, res domain.SessionResult) error {
	return c.doJSON(ctx, http.MethodPost, "/results", resultRequest{UserID: userID, Result: res}, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, requestBody any, responseBody any) error {
	fullURL := c.baseURL + path

	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return err
	}
	request.Header.Set("Accept", "application/json")
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		apiErr := APIError{StatusCode: response.StatusCode}
		var payload errorResponse
		if err := json.NewDecoder(response.Body).Decode(&payload); err == nil && strings.TrimSpace(payload.Error) != "" {
			apiErr.Message = payload.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = response.Status
		}
		if response.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("%w: %w", ErrServiceUnavailable, &apiErr)
		}
		return &apiErr
	}

	if responseBody == nil {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(responseBody)
}
