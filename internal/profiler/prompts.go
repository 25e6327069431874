package profiler

import (
	"fmt"
	"strings"

	"github.com/BerylCAtieno/gtm-studio/internal/models"
)

const (
	profileSystemInstruction  = "You are an expert Go-To-Market strategist for AI products."
	feedbackSystemInstruction = "You are a world-class Creative Director and Copywriter."

	genericAudience = "Target Audience: General Tech B2B Audience."
	listSeparator   = ", "
)

func buildProfilePrompt(verticalDescription string) string {
	return fmt.Sprintf(`Generate a detailed Ideal Customer Profile (ICP) for a Native AI Vertical product described as: "%s". Focus on B2B buyers suitable for high-velocity sales or PLG.`, verticalDescription)
}

// audienceBlock serializes the profile for the feedback prompt. A nil profile gets the generic audience.
func audienceBlock(p *models.Profile) string {
	if p == nil {
		return genericAudience
	}

	var parts []string
	parts = append(parts, "Target Audience Profile:")
	parts = append(parts, fmt.Sprintf("- Role: %s", p.Role))
	parts = append(parts, fmt.Sprintf("- Company Size: %s", p.CompanySize))
	for _, f := range models.ListFields() {
		parts = append(parts, fmt.Sprintf("- %s: %s", f.Label(), strings.Join(p.Items(f), listSeparator)))
	}
	return strings.Join(parts, "\n")
}

func buildFeedbackPrompt(content string, p *models.Profile, assetType models.AssetType) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("Analyze this creative asset (%s) based on the specific target audience profile below.", assetType))
	parts = append(parts, "")
	parts = append(parts, audienceBlock(p))
	parts = append(parts, "")
	parts = append(parts, "Creative Content:")
	parts = append(parts, fmt.Sprintf("\"%s\"", content))
	parts = append(parts, "")
	parts = append(parts, "Provide a critique and a rewritten version that is more persuasive and specifically addresses the pain points and goals listed.")

	return strings.Join(parts, "\n")
}
