package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"beverage-quiz-service/internal/domain"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestDoJSONReturnsServiceUnavailable(t *testing.T) {
	client := NewClient("http://backend.test", 0, &http.Client{
		Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("dial error")
		}),
	})

	_, err := client.LoadCatalog(context.Background(), "")
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable wrapper, got %v", err)
	}
}

func TestDoJSONReturnsAPIErrorMessageFromBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: "unknown user"})
	}))
	defer server.Close()

	client := NewClient(server.URL, 0, server.Client())
	_, err := client.StartSession(context.Background(), "u1")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T (%v)", err, err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "unknown user" {
		t.Fatalf("unexpected api error %+v", apiErr)
	}
	if errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("client errors are not unavailability")
	}
}

func TestServerErrorsCountAsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, 0, server.Client())
	err := client.PersistResults(context.Background(), "u1", domain.SessionResult{SessionID: "s1"})
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected wrapped api error, got %v", err)
	}
}

func TestLoadCatalogBuildsQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/catalog" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("category"); got != "Вино" {
			t.Errorf("category query = %q", got)
		}
		_ = json.NewEncoder(w).Encode(catalogResponse{Items: []domain.CatalogItem{
			{ID: "wine-1", Name: "Barolo", Category: "Wine", Color: "Red"},
		}})
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", 0, server.Client())
	items, err := client.LoadCatalog(context.Background(), " Вино ")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if len(items) != 1 || items[0].Color != "Red" {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestRemoteSessionFlow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tests":
			if r.Method != http.MethodPost {
				t.Errorf("method = %s", r.Method)
			}
			var req startSessionRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.UserID != "u1" {
				t.Errorf("userId = %q", req.UserID)
			}
			_ = json.NewEncoder(w).Encode(startSessionResponse{SessionToken: "tok-1"})
		case "/tests/tok-1/next":
			_ = json.NewEncoder(w).Encode(nextQuestionResponse{Question: &domain.Question{
				Ref:          "wine-1",
				Prompt:       "Which colour?",
				Options:      []string{"Red", "White"},
				CorrectIndex: 0,
			}})
		default:
			_, _ = w.Write([]byte(`{}`))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, 0, server.Client())
	token, err := client.StartSession(context.Background(), "u1")
	if err != nil || token != "tok-1" {
		t.Fatalf("start session = %q, %v", token, err)
	}
	q, err := client.NextQuestion(context.Background(), token)
	if err != nil {
		t.Fatalf("next question: %v", err)
	}
	if q.Ref != "wine-1" || len(q.Options) != 2 {
		t.Fatalf("unexpected question %+v", q)
	}
	if _, err := client.NextQuestion(context.Background(), "empty"); err == nil {
		t.Fatalf("expected an error for a missing question")
	}
}

func TestSubmitAnswerSendsFlatPayload(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/answers" || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected request %s %q", r.URL.Path, r.Header.Get("Content-Type"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, 0, server.Client())
	err := client.SubmitAnswer(context.Background(), "u1", domain.AnswerSubmission{
		SessionID:        "s1",
		QuestionID:       3,
		QuestionRef:      "beer-guinness",
		SelectedIndex:    domain.NoAnswer,
		TimeSpentSeconds: 30,
	})
	if err != nil {
		t.Fatalf("submit answer: %v", err)
	}
	if got["userId"] != "u1" || got["questionRef"] != "beer-guinness" || got["selectedIndex"] != float64(-1) || got["timeSpent"] != float64(30) {
		t.Fatalf("unexpected payload %v", got)
	}
}
