// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package survey

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const defaultQuestionError = "Не удалось выполнить запрос"

// QuestionResult is the outcome of one question
type QuestionResult struct {
	ID         string  `json:"id"               cbor:"1,keyasint"`
	Title      string  `json:"title"            cbor:"2,keyasint"`
	OK         bool    `json:"ok"               cbor:"3,keyasint"`
	Answer     *Answer `json:"answer,omitempty" cbor:"4,keyasint,omitempty"`
	Error      string  `json:"error,omitempty"  cbor:"5,keyasint,omitempty"`
	DurationMs float64 `json:"durationMs"       cbor:"6,keyasint"`
}

// SectionResult holds the outcomes of the questions of a section
type SectionResult struct {
	ID          string           `json:"id"                    cbor:"1,keyasint"`
	Title       string           `json:"title"                 cbor:"2,keyasint"`
	Description string           `json:"description,omitempty" cbor:"3,keyasint,omitempty"`
	Questions   []QuestionResult `json:"questions"             cbor:"4,keyasint"`
}

// ContractRef identifies the surveyed contract kind
type ContractRef struct {
	ID    string `json:"id"    cbor:"1,keyasint"`
	Title string `json:"title" cbor:"2,keyasint"`
}

// RunResult is the outcome of a survey run
type RunResult struct {
	StartedAt  time.Time       `json:"startedAt"  cbor:"1,keyasint"`
	FinishedAt time.Time       `json:"finishedAt" cbor:"2,keyasint"`
	Contract   ContractRef     `json:"contract"   cbor:"3,keyasint"`
	Address    string          `json:"address"    cbor:"4,keyasint"`
	Network    Network         `json:"network"    cbor:"5,keyasint"`
	Sections   []SectionResult `json:"sections"   cbor:"6,keyasint"`
}

// RunOptionFunc is a type that represents functions that modify the survey run config
type RunOptionFunc func(*runConfig)

type runConfig struct {
	logger *slog.Logger
	now    func() time.Time
}

// WithRunLogger specifies the logger used for the run
func WithRunLogger(logger *slog.Logger) RunOptionFunc {
	return func(c *runConfig) {
		c.logger = logger
	}
}

// WithClock specifies the time source used for timestamps and durations
func WithClock(now func() time.Time) RunOptionFunc {
	return func(c *runConfig) {
		c.now = now
	}
}

// Execute asks every question of the survey in declaration order. A failing question is
// recorded in its result and does not stop the remaining ones
func Execute(
	ctx context.Context,
	survey ContractSurvey,
	client Client,
	address string,
	network Network,
	opts ...RunOptionFunc,
) *RunResult {
	cfg := runConfig{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	exec := ExecutionContext{
		Address: address,
		Network: network,
		Client:  client,
	}
	ret := &RunResult{
		StartedAt: cfg.now().UTC(),
		Contract:  ContractRef{ID: survey.ID, Title: survey.Title},
		Address:   address,
		Network:   network,
		Sections:  make([]SectionResult, 0, len(survey.Sections)),
	}
	for _, section := range survey.Sections {
		sectionResult := SectionResult{
			ID:          section.ID,
			Title:       section.Title,
			Description: section.Description,
			Questions:   make([]QuestionResult, 0, len(section.Questions)),
		}
		for _, question := range section.Questions {
			start := cfg.now()
			answer, err := runQuestion(ctx, question, exec)
			result := QuestionResult{
				ID:         question.ID,
				Title:      question.Title,
				DurationMs: float64(cfg.now().Sub(start)) / float64(time.Millisecond),
			}
			if err != nil {
				result.Error = err.Error()
				if result.Error == "" {
					result.Error = defaultQuestionError
				}
				cfg.logger.Warn(
					"survey question failed",
					"component", "survey",
					"section", section.ID,
					"question", question.ID,
					"error", err,
				)
			} else {
				result.OK = true
				result.Answer = answer
			}
			sectionResult.Questions = append(sectionResult.Questions, result)
		}
		ret.Sections = append(ret.Sections, sectionResult)
	}
	ret.FinishedAt = cfg.now().UTC()
	return ret
}

func runQuestion(ctx context.Context, question Question, exec ExecutionContext) (answer *Answer, err error) {
	if question.Executor == nil {
		return nil, fmt.Errorf("question %s has no executor", question.ID)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			answer = nil
			err = fmt.Errorf("question %s panicked: %v", question.ID, r)
		}
	}()
	answer, err = question.Executor(ctx, exec)
	if err == nil && answer == nil {
		answer = &Answer{Headline: EmptyValue}
	}
	return answer, err
}
