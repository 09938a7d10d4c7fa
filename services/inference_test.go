package services_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"notetasks/model"
	"notetasks/services"
	"notetasks/test/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaskLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"dash lines", "- buy milk\n- call mom", []string{"buy milk", "call mom"}},
		{"surrounding prose ignored", "Here are the tasks:\n- book flights\nThanks", []string{"book flights"}},
		{"indented markers", "   -   pack bags  \r\n\t- renew passport", []string{"pack bags", "renew passport"}},
		{"empty after marker dropped", "-\n-   \n- real task", []string{"real task"}},
		{"numbered lines ignored", "1. first\n* second", []string{}},
		{"markdown rules dropped", "---\n- buy milk\n- - -\n-----", []string{"buy milk"}},
		{"dashes inside a task kept", "- re-check the half-done draft", []string{"re-check the half-done draft"}},
		{"empty text", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.ParseTaskLines(tt.text))
		})
	}
}

func TestInferenceClientFallback(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		classifier services.Classifier
		text       string
	}{
		{"no classifier", nil, "Study for the exam"},
		{"service failure", testutils.FailingClassifier(), "Study for the exam"},
		{"blank subject", testutils.StubClassifier("  ", "a task"), "Study for the exam"},
		{"blank text", testutils.StubClassifier("Exams", "a task"), "   "},
		{
			"nil result",
			services.ClassifierFunc(func(ctx context.Context, text string) (*services.InferenceResult, error) {
				return nil, nil
			}),
			"Study for the exam",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := services.NewInferenceClient(tt.classifier, time.Second)
			got := client.Infer(ctx, tt.text)
			assert.Equal(t, model.UnclassifiedSubject, got.Subject)
			assert.NotNil(t, got.Tasks)
			assert.Empty(t, got.Tasks)
		})
	}
}

func TestInferenceClientTimeout(t *testing.T) {
	slow := services.ClassifierFunc(func(ctx context.Context, text string) (*services.InferenceResult, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	client := services.NewInferenceClient(slow, 20*time.Millisecond)
	start := time.Now()
	got := client.Infer(context.Background(), "anything")

	assert.Equal(t, services.Fallback(), got)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestInferenceClientSuccess(t *testing.T) {
	client := services.NewInferenceClient(testutils.StubClassifier(" Exams ", "revise chapter 3"), time.Second)

	got := client.Infer(context.Background(), "Exam on Friday")
	assert.Equal(t, "Exams", got.Subject)
	assert.Equal(t, []string{"revise chapter 3"}, got.Tasks)
}

func newChatServer(t *testing.T, handler func(req map[string]interface{}) (int, string)) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		status, content := handler(req)
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(content))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestOpenAIClassifier(t *testing.T) {
	srv, calls := newChatServer(t, func(req map[string]interface{}) (int, string) {
		if req["max_tokens"].(float64) == 50 {
			return http.StatusOK, "Travel\n"
		}
		return http.StatusOK, "- book flights\n- renew passport\nnothing else"
	})

	classifier := services.NewOpenAIClassifier("test-key", srv.URL+"/", "gpt-test", srv.Client())
	result, err := classifier.Classify(context.Background(), "Trip to Lisbon in May")

	require.NoError(t, err)
	assert.Equal(t, "Travel", result.Subject)
	assert.Equal(t, []string{"book flights", "renew passport"}, result.Tasks)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestOpenAIClassifierErrorStatus(t *testing.T) {
	srv, _ := newChatServer(t, func(req map[string]interface{}) (int, string) {
		return http.StatusTooManyRequests, `{"error":"rate limited"}`
	})

	classifier := services.NewOpenAIClassifier("test-key", srv.URL, "gpt-test", srv.Client())
	_, err := classifier.Classify(context.Background(), "anything")

	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "429"), err.Error())

	// Through the client the failure is absorbed
	got := services.NewInferenceClient(classifier, time.Second).Infer(context.Background(), "anything")
	assert.Equal(t, model.UnclassifiedSubject, got.Subject)
}
