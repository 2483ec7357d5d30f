// Package ai turns commits and activity into short prose through an
// optional completion provider.
package ai

// PR description generation.
const (
	PRDescriptionSystem = `You are a technical writer helping generate concise pull request descriptions.
Focus on what changed and why, not implementation details.
Keep the description to 2-3 sentences maximum.
Don't use unnecessary adjectives, filler words, or superlatives.
Keep it dry, professional, and to the point.
Be specific and actionable.`

	PRDescriptionPrompt = `Analyze these git commits and generate a concise 2-3 sentence pull request description.

Commits:
{commits}

Generate a clear, professional description focusing on what changed and why:`
)

// Work-end status update.
const (
	WorkEndSystem = `You are helping generate concise status updates for development work.
Keep it brief (1-2 sentences) and focus on user-facing changes or key technical improvements.
Be specific about what was accomplished.
Don't use unnecessary adjectives, filler words, or superlatives.
Keep it dry, professional, and to the point.`

	WorkEndPrompt = `Summarize these recent changes in 1-2 sentences for a status update.

Recent commits:
{commits}

Status update:`
)

// Daily digest.
const (
	DailySystem = `You are helping a developer write a short daily standup summary.
Summarize the work in 2-4 sentences.
Group related pull requests and issues where it helps.
Don't use unnecessary adjectives, filler words, or superlatives.
Keep it dry, professional, and to the point.`

	DailyPrompt = `Summarize this work activity for a daily standup.

Pull requests:
{prs}

Jira issues:
{issues}

Summary:`
)
