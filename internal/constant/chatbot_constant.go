package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"

	// Used as the base of the system prompt when no training material is selected.
	DefaultAssistantPersona = "You are OnboardingBuddy, an AI assistant helping new employees with their onboarding journey."

	ResponseFormattingRules = `RESPONSE FORMAT
- Write every answer as clean HTML using only <p>, <h3>, <h4>, <ul>, <ol>, <li>, <strong>, <em> and <a>.
- Do not use Markdown. No **bold**, no # headings, no "-" or "*" bullet lists, no [text](url) links.
- Never wrap the answer in code fences.
- Keep paragraphs short and put steps into lists.`

	ClosedBookRules = `KNOWLEDGE BOUNDARIES
- Answer ONLY with information found in the training materials above.
- Do not invent policies, names, dates, links or procedures.
- If the training materials do not cover the question, say so plainly and tell the employee to contact their manager or HR representative for help.`

	// Sent as the user message when a new browser session registers.
	WelcomeDirective = `Generate a personalized welcome message for a new employee starting their onboarding.
Be enthusiastic, professional, and include next steps.
Ask about their role and provide clear guidance for getting started.`

	// Sent in place of the full system prompt when a continued provider conversation has gone stale.
	ContextRefreshInstruction = "Continue as OnboardingBuddy. Keep following the formatting rules and answer only from the training materials shared earlier in this conversation."

	DegradedModeMessage = `<div class='fallback-message'>
<h3>OnboardingBuddy Assistant</h3>
<p>I'm here to help with your onboarding! However, my AI capabilities are currently unavailable.</p>
<p><strong>I can still help you with:</strong></p>
<ul>
<li>Accessing training materials</li>
<li>Finding uploaded documents</li>
<li>Basic onboarding guidance</li>
</ul>
<p>For immediate assistance, please contact your manager or HR department.</p>
</div>`

	RateLimitedMessage = `<div class='rate-limit-message'>
<h3>Rate Limit Reached</h3>
<p>I'm receiving too many requests right now. Please wait a moment and try again.</p>
<p>I'll be ready to help once the rate limit resets!</p>
</div>`

	ContentTooLargeMessage = `<div class='content-limit-message'>
<h3>Too Much Content</h3>
<p>That's a lot of information! Let's break it down into smaller pieces.</p>
<p><strong>Try asking me about:</strong></p>
<ul>
<li>One specific topic at a time</li>
<li>A particular feature or process</li>
<li>A specific question you have</li>
</ul>
<p>What's the main thing you'd like to learn about first?</p>
</div>`

	UpstreamFailureMessage = `<div class='error-message'>
<p>I'm having trouble reaching my knowledge service right now. Please try again in a moment.</p>
<p>If the problem continues, please contact your manager or HR department.</p>
</div>`

	ExtractionFailureMessage = "I encountered an issue processing the response. Please try again."

	DefaultWelcomeMessage = `<div class='welcome-message'>
<h2>Welcome to OnboardingBuddy!</h2>
<p>I'm your dedicated onboarding assistant, and I'm excited to help you get started!</p>
<p><strong>What can I help you with today?</strong></p>
<ul>
<li>Getting started with your new role</li>
<li>Finding training materials</li>
<li>Answering questions about company policies</li>
<li>Tracking your onboarding progress</li>
</ul>
<p>Let's make your onboarding journey smooth and successful! What would you like to know first?</p>
</div>`
)
