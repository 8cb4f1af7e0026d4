package scoring

import (
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/spigell/interview-coach/internal/questions"
)

// Tier is the coarse classification of a finished session.
type Tier string

const (
	Outstanding   Tier = "outstanding"
	Good          Tier = "good"
	NeedsPractice Tier = "needs-practice"
)

var deliveryTips = []string{
	"Try to reduce filler words like 'um' and 'ah' in your responses.",
	"Your pacing was good, but try to speak a little more slowly for clarity.",
	"Consider using more industry-specific terminology to sound more professional.",
	"Good sentence structure, but work on varying your vocabulary.",
	"Your pronunciation was clear and easy to understand.",
}

func card(class, heading, title string, paragraphs ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<div class=%q><%s>%s</%s>", strings.TrimSpace("feedback-card "+class), heading, html.EscapeString(title), heading)
	for _, p := range paragraphs {
		fmt.Fprintf(&b, "<p>%s</p>", p)
	}
	b.WriteString("</div>")
	return b.String()
}

// Feedback renders the per-answer feedback card for score. Any non-zero
// score gets one random delivery tip.
func Feedback(score int, rng questions.Rand) string {
	var out string
	switch {
	case score >= 85:
		out = card("feedback-positive", "h5", "Excellent Answer!",
			"Your response was comprehensive and demonstrated strong knowledge. You provided specific examples that directly related to the question.",
			"<strong>Feedback:</strong> Continue with this level of detail in your answers.")
	case score >= 70:
		out = card("", "h5", "Good Answer",
			"Your response addressed the question well but could benefit from more specific examples or details.",
			"<strong>Feedback:</strong> Try to include more concrete examples from your experience to strengthen your answers.")
	case score > 0:
		out = card("feedback-improvement", "h5", "Needs Improvement",
			"Your response was somewhat generic and didn't fully address the question. Consider practicing this area.",
			"<strong>Feedback:</strong> Focus on being more specific and structured in your responses.")
	default:
		return card("feedback-improvement", "h5", "No Response Detected",
			"We didn't hear an answer. Please check your microphone or speak clearly.",
			"<strong>Feedback:</strong> Make sure to provide a verbal response to get a score.")
	}

	tip := deliveryTips[rng.IntN(len(deliveryTips))]
	return out + card("", "h5", "Language & Delivery", html.EscapeString(tip))
}

// Classify maps a final running score to its tier.
func Classify(running int) Tier {
	switch {
	case running >= 85:
		return Outstanding
	case running >= 70:
		return Good
	default:
		return NeedsPractice
	}
}

// FinalFeedback renders the end-of-session summary for running.
func FinalFeedback(running int) string {
	switch Classify(running) {
	case Outstanding:
		return card("feedback-positive", "h4", "Outstanding Performance!",
			"Your interview responses were excellent overall. You demonstrated strong knowledge, clear communication, and relevant experience.",
			"<strong>Recommendation:</strong> You are well-prepared for real interviews. Continue practicing to maintain your skills.")
	case Good:
		return card("", "h4", "Good Performance",
			"You performed well in the interview practice. There are areas for improvement but overall you're on the right track.",
			"<strong>Recommendation:</strong> Focus on providing more specific examples and reducing hesitation in your responses.")
	default:
		return card("feedback-improvement", "h4", "Needs More Practice",
			"Your interview performance indicates that you need more preparation before facing real interviews.",
			"<strong>Recommendation:</strong> Practice more frequently, work on structuring your answers, and study the required knowledge areas.")
	}
}

// PlainText renders feedback HTML as console text, one block per line.
func PlainText(content string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return strings.TrimSpace(content)
	}

	var lines []string
	doc.Find("h1, h2, h3, h4, h5, h6, p, li").Each(func(_ int, s *goquery.Selection) {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text == "" {
			return
		}
		if goquery.NodeName(s) == "li" {
			text = "- " + text
		}
		lines = append(lines, text)
	})

	if len(lines) == 0 {
		return strings.Join(strings.Fields(doc.Text()), " ")
	}
	return strings.Join(lines, "\n")
}
