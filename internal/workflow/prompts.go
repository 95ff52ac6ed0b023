package workflow

import (
	"strings"

	"repoadvisor/internal/types"
)

const (
	analysisFocusInitial = "security, performance, code quality"
	analysisFocusReflect = "security vulnerabilities, performance bottlenecks, code style, maintainability"

	defaultInstructions = "Focus on security best practices and code quality"
)

const analysisPromptTemplate = `You are Code Analyzer Agent (CAA), an expert AI code analyst. Your task is to analyze the provided code and project structure for potential issues and provide comprehensive insights.

**Input:**
*   **Code:**
` + "    ```\n    {code}\n    ```" + `
*   **File Tree:**
` + "    ```\n    {file_tree}\n    ```" + `
*   **Programming Language:** {language}
*   **Analysis Focus:** {analysis_focus}
*   **Style Guide:** {style_guide}
*   **Specific Instructions:** {specific_instructions}

**Analysis Categories:**
1. Code Quality: readability, maintainability, coding standards compliance, documentation completeness
2. Security Issues: injection vulnerabilities, hardcoded credentials, authentication/authorization, data protection
3. Dependencies: package versions, known vulnerabilities, license compliance, compatibility status
4. Performance: logic efficiency, resource management, database operations, caching
5. Best Practices: exception handling, logging, unit test coverage, design patterns

**Guardrails:**
* DO NOT expose PII, secrets, API keys, or confidential data
* DO NOT execute provided code
* Back recommendations with evidence (cite line numbers); state uncertainties clearly
* Use neutral language and stay within the analysis scope

**Output Format (Markdown):**
## Code Analysis Report

### Project Overview
[Brief description of structure and tech stack]

### High Severity Issues
* **Issue:** [Description]
* **Category:** [Security/Performance/etc]
* **Location:** [File:line]
* **Impact:** [Consequences]
* **Recommendation:** [Solution]

### Medium Severity Issues
[Same format as above]

### Low Severity Issues
[Same format as above]

### Best Practices Review
* Testing: [Coverage analysis]
* Logging: [Implementation review]
* Error Handling: [Strategy assessment]

### Recommendations
[Prioritized list of actionable improvements]

### Conclusion
[Key findings summary]`

const recommendationPromptTemplate = `You are Recommendations Agent (RA), an expert AI code analyst. Your task is to analyze the provided code and file structure to generate actionable recommendations.

**Input:**
* **File Tree Structure:**
` + "    ```\n    {file_tree}\n    ```" + `
* **Code Content:**
` + "    ```\n    {file_contents}\n    ```" + `
* **Programming Languages:** {programming_languages}
* **Code Analysis Report:**
` + "    ```\n    {analysis_result}\n    ```" + `

**Guardrails:**
* DO NOT expose any PII, secrets, API keys, passwords, or confidential data
* DO NOT execute the provided code
* Back all recommendations with evidence from the code (cite line numbers)
* Avoid speculation; state any uncertainties clearly
* Use neutral and objective language

**Output Format (Markdown):**
## Recommendations Report

### Summary
[Brief overview highlighting key areas for improvement]

### High Priority Recommendations
* **Issue:** [Brief description]
* **Location:** [File and line numbers]
* **Recommendation:** [Detailed steps to address]
* **Rationale:** [Why this is important]

### Medium Priority Recommendations
[Recommendations for code quality and maintainability]

### Low Priority Recommendations
[Minor improvements for style and optimization]

### Conclusion
[Summary of key recommendations and expected impact]`

func analysisPrompt(st *types.WorkflowState, focus string) string {
	instructions := st.UserNotes
	if strings.TrimSpace(instructions) == "" {
		instructions = defaultInstructions
	}
	return fill(analysisPromptTemplate, map[string]string{
		"code":                  st.FileContents,
		"file_tree":             st.FileTree,
		"language":              strings.Join(st.Languages, ", "),
		"analysis_focus":        focus,
		"style_guide":           styleGuideFor(st.Languages),
		"specific_instructions": instructions,
	})
}

func recommendationPrompt(st *types.WorkflowState) string {
	return fill(recommendationPromptTemplate, map[string]string{
		"file_tree":             st.FileTree,
		"file_contents":         st.FileContents,
		"programming_languages": strings.Join(st.Languages, ", "),
		"analysis_result":       st.AnalysisText,
	})
}

func styleGuideFor(languages []string) string {
	for _, l := range languages {
		if l == "Python" {
			return "PEP 8"
		}
	}
	return ""
}

func fill(tmpl string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
