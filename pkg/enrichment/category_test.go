package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pulsedesk/complaints/pkg/common/config"
)

func categoryConfig(url, key string) *config.Config {
	return &config.Config{
		OpenAIAPIKey:        key,
		OpenAIBaseURL:       url,
		OpenAIModel:         "gpt-3.5-turbo",
		OpenAIMaxTokens:     50,
		OpenAITemperature:   0.1,
		OpenAITimeout:       2 * time.Second,
		ComplaintMaxTextLen: 2000,
	}
}

func completionServer(t *testing.T, answer string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("missing bearer token")
		}
		fmt.Fprintf(w, `{"choices":[{"message":{"content":%s}}]}`, mustJSON(answer))
	}))
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestCategoryClientClosedSet(t *testing.T) {
	cases := []struct {
		name    string
		answer  string
		want    string
		wantErr bool
	}{
		{name: "exact label", answer: "billing", want: "billing"},
		{name: "capitalised with period", answer: "Technical.", want: "technical"},
		{name: "quoted", answer: `"other"`, want: "other"},
		{name: "label inside prose", answer: "The category is billing", want: "billing"},
		{name: "hint keyword", answer: "looks like a payment problem", want: "billing"},
		{name: "outside the set", answer: "complaint", wantErr: true},
		{name: "ambiguous", answer: "technical or billing", wantErr: true},
		{name: "empty answer", answer: "", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := completionServer(t, tc.answer)
			defer server.Close()

			client := NewCategoryClient(categoryConfig(server.URL, "sk-test"), DefaultLabels(), server.Client())
			got, err := client.Categorize(context.Background(), "some complaint")

			if tc.wantErr {
				assertKind(t, err, KindUnparseable)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestCategoryClientMissingCredential(t *testing.T) {
	client := NewCategoryClient(categoryConfig("http://unused", ""), DefaultLabels(), http.DefaultClient)
	_, err := client.Categorize(context.Background(), "text")
	assertKind(t, err, KindMissingCredential)
}

func TestCategoryClientUpstreamRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewCategoryClient(categoryConfig(server.URL, "sk-test"), DefaultLabels(), server.Client())
	_, err := client.Categorize(context.Background(), "text")
	assertKind(t, err, KindUpstreamRejected)
}

func TestCategoryClientEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := NewCategoryClient(categoryConfig(server.URL, "sk-test"), DefaultLabels(), server.Client())
	_, err := client.Categorize(context.Background(), "text")
	assertKind(t, err, KindUnparseable)
}

func TestCategoryClientPromptListsLabels(t *testing.T) {
	client := NewCategoryClient(categoryConfig("http://unused", "sk-test"), DefaultLabels(), http.DefaultClient)
	prompt := client.buildPrompt("my app crashes")

	for _, label := range DefaultLabels().Names() {
		if !strings.Contains(prompt, label) {
			t.Fatalf("prompt missing label %q: %s", label, prompt)
		}
	}
}
