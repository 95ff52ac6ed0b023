package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"repoadvisor/internal/config"
	"repoadvisor/internal/fetch"
	"repoadvisor/internal/llmclient"
	"repoadvisor/internal/mailer"
	"repoadvisor/internal/report"
	"repoadvisor/internal/workflow"
)

func main() {
	repo := flag.String("repo", "", "GitHub repository URL or owner/repo")
	notes := flag.String("notes", "", "extra instructions for the analysis")
	resume := flag.Bool("resume", false, "resume from a completed analysis round")
	noEmail := flag.Bool("no-email", false, "skip emailing the report")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	repoURL := *repo
	if repoURL == "" {
		repoURL = cfg.RepoURL
	}
	if repoURL == "" {
		log.Fatal("--repo or GITHUB_REPO_URL_PUBLIC is required")
	}

	ctx := context.Background()

	llm, err := buildClient(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	llm = llmclient.Wrap(llm,
		llmclient.WithLogging(nil),
		llmclient.RateLimit(cfg.LLMRPS, cfg.LLMBurst),
	)
	defer llm.Close()

	m := workflow.New(
		fetch.New(cfg.GitHubToken),
		llm,
		report.NewWriter(cfg.AnalysisDir, "code_analysis"),
		report.NewWriter(cfg.RecommendationDir, "recommendations"),
	)

	st, err := m.Run(ctx, repoURL, workflow.Options{
		UserNotes:          *notes,
		ResumeFromAnalysis: *resume,
	})
	if err != nil {
		log.Print(err)
		os.Exit(1)
	}

	fmt.Println("analysis report:", st.AnalysisReportPath)
	fmt.Println("recommendation report:", st.RecommendationReportPath)

	if *noEmail {
		return
	}
	mc := cfg.Mail
	m2 := mailer.New(mc.Sender, mc.Recipients, mc.CC, mc.Host, mc.Port, mc.Password)
	if !m2.Enabled() {
		return
	}
	note := fmt.Sprintf("Repository: %s\n", st.RepoURL)
	if err := m2.SendReport(ctx, st.AnalysisReportPath, note); err != nil {
		log.Printf("failed to send email: %v", err)
		return
	}
	log.Print("report emailed")
}

func buildClient(ctx context.Context, cfg *config.Config) (llmclient.Client, error) {
	switch cfg.Provider {
	case "azure":
		return llmclient.NewAzureClient(cfg.Azure.Endpoint, cfg.Azure.APIKey, cfg.Azure.APIVersion, cfg.Azure.Deployment)
	case "gemini":
		return llmclient.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	case "fake":
		return llmclient.NewFakeClient(), nil
	}
	return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
}
