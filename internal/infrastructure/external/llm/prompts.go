package llm

import (
	"fmt"
	"strings"

	"github.com/onemoreday/scholarship-hub/internal/domain/applicant"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROMPTS
// ══════════════════════════════════════════════════════════════════════════════

// applicantProfile renders one applicant as plain text for a prompt. Empty
// answers are shown as "(no answer)" so the model never invents one.
func applicantProfile(a *applicant.Applicant) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Applicant ID: %s\n", a.ID)
	fmt.Fprintf(&b, "Name: %s\n", a.FullName())
	if loc := a.Location(); loc != "" {
		fmt.Fprintf(&b, "Location: %s\n", loc)
	}
	writeAnswer(&b, "Tell us about yourself", a.AboutYourself)
	writeAnswer(&b, "What drew you to apply for this scholarship?", a.WhyApply)
	writeAnswer(&b, "What is a challenge or obstacle you have faced?", a.ChallengeOrObstacle)
	writeAnswer(&b, "Where do you find inspiration?", a.Inspiration)
	writeAnswer(&b, "What do you wish for yourself?", a.WishForYourself)
	writeAnswer(&b, "Anything else to share", a.AnythingElse)
	return b.String()
}

func writeAnswer(b *strings.Builder, question, answer string) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		answer = "(no answer)"
	}
	fmt.Fprintf(b, "%s:\n%s\n\n", question, answer)
}

// searchPrompt asks the model to pick matching applicants and answer in a
// strict JSON shape the caller can parse.
func searchPrompt(question string, applicants []*applicant.Applicant) string {
	var b strings.Builder
	b.WriteString("You are helping a scholarship review board search applicant essays.\n")
	b.WriteString("Below are all applicant profiles. Answer the reviewer's question by selecting\n")
	b.WriteString("the applicants whose own words support a match.\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Base every match strictly on the profile text; never guess or infer.\n")
	b.WriteString("- For each match, quote or paraphrase the supporting passage in \"reason\".\n")
	b.WriteString("- If no applicant matches, return an empty matches array.\n")
	b.WriteString("- Respond with JSON only, no prose, in exactly this shape:\n")
	b.WriteString(`  {"matches": [{"id": "...", "firstName": "...", "lastName": "...", "reason": "..."}]}` + "\n\n")

	b.WriteString("Profiles:\n\n")
	for _, a := range applicants {
		b.WriteString("---\n")
		b.WriteString(applicantProfile(a))
	}
	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "Question: %s\n", question)
	return b.String()
}

// chatSystemPrompt grounds the conversation in one applicant's profile.
func chatSystemPrompt(a *applicant.Applicant) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an assistant helping a scholarship review board discuss the applicant %s.\n\n", a.FullName())
	b.WriteString("CRITICAL INSTRUCTIONS:\n")
	b.WriteString("- Answer ONLY from the applicant profile below.\n")
	b.WriteString("- If the profile does not contain the answer, say so plainly; never speculate.\n")
	b.WriteString("- Do not compare this applicant to others; you only know this one profile.\n")
	b.WriteString("- Keep answers short and factual; quote the applicant's own words where helpful.\n\n")
	b.WriteString("Applicant profile:\n\n")
	b.WriteString(applicantProfile(a))
	return b.String()
}

// summaryPrompt asks for the three-bullet applicant summary used in the
// meeting overview document.
func summaryPrompt(a *applicant.Applicant) string {
	var b strings.Builder
	b.WriteString("Summarize the scholarship applicant below in exactly three short bullet points\n")
	b.WriteString("for a board meeting handout. Each bullet starts with \"• \". Use only facts from\n")
	b.WriteString("the profile. No preamble, no closing line - the three bullets only.\n\n")
	b.WriteString(applicantProfile(a))
	return b.String()
}
