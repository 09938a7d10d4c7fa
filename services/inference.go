package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"notetasks/model"
	"notetasks/utils"
)

type InferenceResult struct {
	Subject string   `json:"subject"`
	Tasks   []string `json:"tasks"`
}

// Classifier extracts a subject and action items from free text. Any failure
// is returned as an error; callers decide how to degrade.
type Classifier interface {
	Classify(ctx context.Context, text string) (*InferenceResult, error)
}

// ClassifierFunc adapts a function to the Classifier interface
type ClassifierFunc func(ctx context.Context, text string) (*InferenceResult, error)

func (f ClassifierFunc) Classify(ctx context.Context, text string) (*InferenceResult, error) {
	return f(ctx, text)
}

var ErrNoClassifier = errors.New("no classifier configured")

// Fallback is returned whenever classification is unavailable
func Fallback() InferenceResult {
	return InferenceResult{Subject: model.UnclassifiedSubject, Tasks: []string{}}
}

// InferenceClient wraps a Classifier so that callers always get a usable
// result: failures, timeouts and empty answers become Fallback(). There is no
// retry.
type InferenceClient struct {
	classifier Classifier
	timeout    time.Duration
}

func NewInferenceClient(classifier Classifier, timeout time.Duration) *InferenceClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &InferenceClient{classifier: classifier, timeout: timeout}
}

func (c *InferenceClient) Infer(ctx context.Context, text string) InferenceResult {
	if c == nil || c.classifier == nil {
		utils.TrackInference("fallback")
		return Fallback()
	}
	if strings.TrimSpace(text) == "" {
		utils.TrackInference("fallback")
		return Fallback()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	result, err := c.classifier.Classify(ctx, text)
	utils.InferenceDuration.Observe(time.Since(start).Seconds())

	if err == nil && result != nil {
		result.Subject = strings.TrimSpace(result.Subject)
		if result.Subject == "" {
			err = errors.New("empty subject in inference response")
		}
	} else if err == nil {
		err = errors.New("empty inference response")
	}
	if err != nil {
		log.Printf("Inference unavailable, using fallback: %v", err)
		utils.TrackInference("fallback")
		return Fallback()
	}

	utils.TrackInference("success")
	tasks := result.Tasks
	if tasks == nil {
		tasks = []string{}
	}
	return InferenceResult{Subject: result.Subject, Tasks: tasks}
}

// ParseTaskLines keeps the dash-bulleted lines of a response, stripped of the
// marker and surrounding whitespace. Lines that are empty after stripping are
// dropped, as are Markdown rules such as "---" or "- - -".
func ParseTaskLines(text string) []string {
	tasks := make([]string, 0)
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "-") {
			continue
		}
		task := strings.TrimSpace(strings.TrimPrefix(line, "-"))
		if strings.Trim(task, "-*_ \t") != "" {
			tasks = append(tasks, task)
		}
	}
	return tasks
}
