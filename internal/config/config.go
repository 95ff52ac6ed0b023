// Package config loads runtime settings from the environment, with an
// optional .env file for local use.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	GitHubToken string
	RepoURL     string

	Provider string
	Azure    AzureConfig
	Gemini   GeminiConfig

	LLMRPS   float64
	LLMBurst int

	AnalysisDir       string
	RecommendationDir string

	Mail MailConfig
}

type AzureConfig struct {
	Endpoint   string
	APIKey     string
	APIVersion string
	Deployment string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type MailConfig struct {
	Sender     string
	Recipients []string
	CC         string
	Host       string
	Port       int
	Password   string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	token := strings.TrimSpace(os.Getenv("GITHUB_TOKEN"))
	if token == "" {
		return nil, fmt.Errorf("config: GITHUB_TOKEN is not set")
	}

	provider := strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER")))
	if provider == "" {
		provider = "azure"
	}

	return &Config{
		GitHubToken: token,
		RepoURL:     strings.TrimSpace(os.Getenv("GITHUB_REPO_URL_PUBLIC")),
		Provider:    provider,
		Azure: AzureConfig{
			Endpoint:   strings.TrimSpace(os.Getenv("AZURE_OPENAI_ENDPOINT")),
			APIKey:     strings.TrimSpace(os.Getenv("AZURE_OPENAI_API_KEY")),
			APIVersion: firstNonEmpty(os.Getenv("AZURE_OPENAI_API_VERSION"), "2024-02-01"),
			Deployment: strings.TrimSpace(os.Getenv("AZURE_GPT4_DEPLOYMENT_NAME")),
		},
		Gemini: GeminiConfig{
			APIKey: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
			Model:  firstNonEmpty(os.Getenv("GEMINI_MODEL"), "gemini-2.0-flash"),
		},
		LLMRPS:            envFloat("LLM_RPS", 0),
		LLMBurst:          envInt("LLM_BURST", 1),
		AnalysisDir:       firstNonEmpty(os.Getenv("ANALYSIS_REPORT_DIR"), "analysis_reports"),
		RecommendationDir: firstNonEmpty(os.Getenv("RECOMMENDATION_REPORT_DIR"), "recommendation_reports"),
		Mail:              loadMailConfig(),
	}, nil
}

func loadMailConfig() MailConfig {
	return MailConfig{
		Sender:     strings.TrimSpace(os.Getenv("SENDER_EMAIL")),
		Recipients: splitList(os.Getenv("RECIEVER_EMAIL")),
		CC:         strings.TrimSpace(os.Getenv("CC")),
		Host:       firstNonEmpty(os.Getenv("SMTP_HOST"), "smtp.gmail.com"),
		Port:       envInt("SMTP_PORT", 465),
		Password:   os.Getenv("SMTP_PASSWORD"),
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envFloat(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
