package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// Fallback strings for the disabled and failing states. The generator
// is a best-effort side feature: it degrades to these messages and
// never returns an error to the caller.
const (
	answerDisabledMessage   = "AI feature disabled. Please set GEMINI_API_KEY to enable automatic answer generation."
	answerErrorMessage      = "Error: Unable to connect to AI service."
	analysisDisabledMessage = "AI resume analysis disabled. Enter your skills manually."
	analysisErrorMessage    = "Error: Unable to analyze resume."
)

// AnswerGenerator drafts application answers and resume summaries with
// Gemini when an API key is configured.
type AnswerGenerator struct {
	llm llms.Model
}

func NewAnswerGenerator(apiKey string) *AnswerGenerator {
	if apiKey == "" {
		return &AnswerGenerator{}
	}

	llm, err := googleai.New(context.Background(),
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel("gemini-2.5-flash"),
	)
	if err != nil {
		log.Warn().Err(err).Msg("could not create Gemini client, answer generation disabled")
		return &AnswerGenerator{}
	}
	return &AnswerGenerator{llm: llm}
}

// Enabled reports whether a generation backend is configured.
func (g *AnswerGenerator) Enabled() bool {
	return g.llm != nil
}

// GenerateAnswer drafts a persuasive answer to an application question
// from the run keywords and the candidate's skills summary.
func (g *AnswerGenerator) GenerateAnswer(ctx context.Context, question, keywords, skillsSummary string) string {
	if g.llm == nil {
		return answerDisabledMessage
	}

	prompt := fmt.Sprintf(`You are an expert career coach helping a student apply for an internship.

Job Keywords: %s
Candidate Skills: %s

The internship application asks the following question:
"%s"

Write a professional, human-like, and persuasive answer (max 150 words).
Focus on value, enthusiasm, and specific skills. Do not include placeholders like [Your Name].`,
		keywords, skillsSummary, question)

	answer, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt)
	if err != nil {
		log.Error().Err(err).Msg("answer generation failed")
		return answerErrorMessage
	}
	if answer == "" {
		return "Could not generate answer."
	}
	return answer
}

// AnalyzeResume summarizes the candidate's top skills from plain resume
// text.
func (g *AnswerGenerator) AnalyzeResume(ctx context.Context, resumeText string) string {
	if g.llm == nil {
		return analysisDisabledMessage
	}

	if len(resumeText) > 2000 {
		resumeText = resumeText[:2000]
	}
	prompt := fmt.Sprintf(`Analyze the following resume text and provide a concise summary of the candidate's top 5 technical skills and 3 soft skills.

Resume Text:
%s`, resumeText)

	analysis, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt)
	if err != nil {
		log.Error().Err(err).Msg("resume analysis failed")
		return analysisErrorMessage
	}
	if analysis == "" {
		return "Could not analyze resume."
	}
	return analysis
}
