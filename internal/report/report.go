// Package report renders analysis results as Telegram-ready Markdown
// messages. It builds strings only and carries no transport concerns.
package report

import (
	"fmt"
	"strings"

	"rugshield/internal/analysis"
	"rugshield/internal/contract"
	"rugshield/internal/storage"
	"rugshield/internal/wallet"
)

// markdownSpecials are the characters Telegram's MarkdownV2 mode requires
// escaped in plain text.
const markdownSpecials = "_*[]()~`>#+-=|{}.!"

// EscapeMarkdown backslash-escapes MarkdownV2 special characters.
func EscapeMarkdown(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if strings.ContainsRune(markdownSpecials, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

var riskEmoji = map[analysis.RiskLevel]string{
	analysis.RiskExtreme: "🔴",
	analysis.RiskHigh:    "🟠",
	analysis.RiskMedium:  "🟡",
	analysis.RiskLow:     "🟢",
	analysis.RiskMinimal: "🟢",
}

var activityEmoji = map[analysis.ActivityLevel]string{
	analysis.ActivityVeryHigh: "🟢",
	analysis.ActivityHigh:     "🟡",
	analysis.ActivityMedium:   "🟠",
	analysis.ActivityLow:      "🔴",
	analysis.ActivityVeryLow:  "⚫",
}

func levelEmoji(level analysis.RiskLevel) string {
	if emoji, ok := riskEmoji[level]; ok {
		return emoji
	}
	return "⚪"
}

// title capitalises the first letter of each underscore- or space-separated
// word.
func title(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == ' ' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Welcome is the /start greeting.
func Welcome() string {
	return `🚀 *Welcome to RugShield Bot\!*

I analyze tokens and flag likely scams\. Commands:

• /analyze \<address\> \- full token analysis
• /metrics \<address\> \- market metrics
• /risk \<address\> \- risk assessment
• /social \<address\> \- social media activity
• /contract \<address\> \- contract inspection
• /wallet \<address\> \- wallet overview
• /scam\_check \<address\> \- scam database lookup

Example: ` + "`/analyze 0x123...abc`"
}

// Help lists the available commands.
func Help() string {
	return Welcome()
}

// Errorf renders an error as a user-facing message.
func Errorf(action string, err error) string {
	return fmt.Sprintf("❌ *Error %s:* `%s`", action, EscapeMarkdown(err.Error()))
}

// Analysis renders the headline analysis message.
func Analysis(snap analysis.TokenSnapshot, assessment analysis.RiskAssessment, commentary string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔍 *Token Analysis for %s*\n\n", EscapeMarkdown(snap.Address))
	fmt.Fprintf(&b, "*%s \\(%s\\)*\n\n", EscapeMarkdown(snap.Name), EscapeMarkdown(snap.Symbol))
	fmt.Fprintf(&b, "💰 *Price:* `$%s`\n", snap.Price.String())
	fmt.Fprintf(&b, "📊 *Market Cap:* `$%s`\n", snap.MarketCap.String())
	fmt.Fprintf(&b, "📈 *24h Volume:* `$%s`\n", snap.Volume24h.String())
	fmt.Fprintf(&b, "👥 *Holders:* `%d`\n\n", snap.Holders)
	fmt.Fprintf(&b, "%s *Overall Risk:* `%s`\n", levelEmoji(assessment.OverallRisk), EscapeMarkdown(strings.ToUpper(string(assessment.OverallRisk))))
	if commentary != "" {
		fmt.Fprintf(&b, "\n🤖 *AI Analysis:*\n%s\n", EscapeMarkdown(commentary))
	}
	return b.String()
}

// Metrics renders the metrics classification message.
func Metrics(address string, snap analysis.TokenSnapshot, metrics analysis.MetricsClassification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Detailed Metrics for %s*\n\n", EscapeMarkdown(address))
	b.WriteString("*Market Analysis:*\n")
	fmt.Fprintf(&b, "• Price Trend: `%s`\n", EscapeMarkdown(title(string(metrics.PriceTrend))))
	fmt.Fprintf(&b, "• Volume Analysis: `%s`\n", EscapeMarkdown(title(string(metrics.VolumeLevel))))
	fmt.Fprintf(&b, "• Holder Distribution: `%s`\n", EscapeMarkdown(title(string(metrics.HolderDistribution))))
	fmt.Fprintf(&b, "• Liquidity Analysis: `%s`\n\n", EscapeMarkdown(title(string(metrics.LiquidityLevel))))
	b.WriteString("*Raw Metrics:*\n")
	fmt.Fprintf(&b, "• Price: `$%s`\n", snap.Price.String())
	fmt.Fprintf(&b, "• Market Cap: `$%s`\n", snap.MarketCap.String())
	fmt.Fprintf(&b, "• 24h Volume: `$%s`\n", snap.Volume24h.String())
	fmt.Fprintf(&b, "• Holders: `%d`\n", snap.Holders)
	return b.String()
}

// Risk renders the risk assessment message.
func Risk(address string, assessment analysis.RiskAssessment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⚠️ *Risk Analysis for %s*\n\n", EscapeMarkdown(address))
	fmt.Fprintf(&b, "%s *Overall Risk:* `%s`\n\n", levelEmoji(assessment.OverallRisk), EscapeMarkdown(strings.ToUpper(string(assessment.OverallRisk))))

	b.WriteString("*Risk Factors:*\n")
	if len(assessment.RiskFactors) == 0 {
		b.WriteString("• None detected\n")
	}
	for _, factor := range assessment.RiskFactors {
		fmt.Fprintf(&b, "• %s\n", EscapeMarkdown(factor))
	}

	b.WriteString("\n*Recommendations:*\n")
	if len(assessment.Recommendations) == 0 {
		b.WriteString("• No specific action needed\n")
	}
	for _, rec := range assessment.Recommendations {
		fmt.Fprintf(&b, "• %s\n", EscapeMarkdown(rec))
	}

	b.WriteString("\n*Risk Metrics:*\n")
	fmt.Fprintf(&b, "• Market Cap Risk: %s\n", checkmark(assessment.RiskMetrics.MarketCapRisk))
	fmt.Fprintf(&b, "• Volume Risk: %s\n", checkmark(assessment.RiskMetrics.VolumeRisk))
	fmt.Fprintf(&b, "• Holder Risk: %s\n", checkmark(assessment.RiskMetrics.HolderRisk))
	fmt.Fprintf(&b, "• Liquidity Risk: %s\n", checkmark(assessment.RiskMetrics.LiquidityRisk))
	return b.String()
}

func checkmark(risky bool) string {
	if risky {
		return "❌"
	}
	return "✅"
}

// Social renders the social activity message.
func Social(name, symbol string, snap analysis.SocialSnapshot) string {
	emoji, ok := activityEmoji[snap.ActivityLevel]
	if !ok {
		emoji = "⚪"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📱 *Social Media Analysis for %s \\(%s\\)*\n\n", EscapeMarkdown(name), EscapeMarkdown(symbol))
	b.WriteString("*Twitter Stats:*\n")
	fmt.Fprintf(&b, "• Mentions: `%d`\n", snap.Mentions)
	fmt.Fprintf(&b, "• Engagement: `%d`\n", snap.Engagement)
	fmt.Fprintf(&b, "• Sentiment Score: `%.2f`\n", snap.SentimentScore)
	fmt.Fprintf(&b, "• Activity Level: %s `%s`\n\n", emoji, EscapeMarkdown(title(string(snap.ActivityLevel))))
	b.WriteString("*Recent Activity:*\n")
	b.WriteString(recentPosts(snap.RecentPosts))
	return b.String()
}

func recentPosts(posts []analysis.SocialPost) string {
	if len(posts) == 0 {
		return "_No recent posts found_\n"
	}

	var b strings.Builder
	for _, post := range posts {
		text := post.Text
		if len(text) > 100 {
			text = text[:100] + "..."
		}
		fmt.Fprintf(&b, "• @%s \\(%d followers\\)\n", EscapeMarkdown(post.AuthorHandle), post.AuthorFollowers)
		fmt.Fprintf(&b, "  %s\n", EscapeMarkdown(text))
		fmt.Fprintf(&b, "  ❤️ %d \\| 🔄 %d \\| 💬 %d\n", post.Likes, post.Retweets, post.Replies)
	}
	return b.String()
}

// Contract renders the bytecode inspection message.
func Contract(inspection contract.Inspection) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📝 *Contract Analysis for %s*\n\n", EscapeMarkdown(inspection.Address))

	if !inspection.HasCode {
		b.WriteString("⚠️ No contract code at this address\\.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "• Code Size: `%d bytes`\n\n", inspection.CodeSize)
	b.WriteString("*Scam Pattern Detection:*\n")
	if len(inspection.Indicators) == 0 {
		b.WriteString("✅ No suspicious patterns detected\n")
		return b.String()
	}
	for _, ind := range inspection.Indicators {
		fmt.Fprintf(&b, "⚠️ %s \\(%s\\) \\- `%s` risk\n",
			EscapeMarkdown(title(ind.Pattern)), EscapeMarkdown(ind.Function), EscapeMarkdown(strings.ToUpper(ind.RiskLevel)))
	}
	return b.String()
}

// Wallet renders the wallet overview message.
func Wallet(overview wallet.Overview) string {
	var b strings.Builder
	fmt.Fprintf(&b, "👛 *Wallet Analysis for %s*\n\n", EscapeMarkdown(overview.Address))
	b.WriteString("*Overview:*\n")
	fmt.Fprintf(&b, "• Balance: `%s ETH`\n", overview.BalanceETH.StringFixed(4))
	fmt.Fprintf(&b, "• First Seen: `%s`\n", EscapeMarkdown(overview.FirstSeen))
	fmt.Fprintf(&b, "• Total Tokens: `%d`\n", overview.TotalTokens)
	fmt.Fprintf(&b, "• Total Transactions: `%d`\n\n", overview.TotalTransactions)

	if len(overview.SuspiciousActivities) == 0 {
		b.WriteString("✅ No suspicious activity detected\\.\n")
		return b.String()
	}
	b.WriteString("⚠️ *Suspicious Activity Detected:*\n")
	for _, activity := range overview.SuspiciousActivities {
		fmt.Fprintf(&b, "• %s \\(%s\\): %s\n",
			EscapeMarkdown(title(activity.Type)), EscapeMarkdown(strings.ToUpper(activity.Severity)), EscapeMarkdown(activity.Description))
	}
	return b.String()
}

// ScamAlert renders a filed scam report.
func ScamAlert(rep storage.ScamReport) string {
	var b strings.Builder
	b.WriteString("⚠️ *SCAM ALERT* ⚠️\n\nToken has been reported as a scam\\!\n\n")
	b.WriteString("📋 *Report Details:*\n")
	fmt.Fprintf(&b, "• Type: `%s`\n", EscapeMarkdown(rep.Type))
	fmt.Fprintf(&b, "• Severity: `%s`\n", EscapeMarkdown(rep.Severity))
	fmt.Fprintf(&b, "• Reported Date: `%s`\n", rep.ReportedDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "• Source: `%s`\n\n", EscapeMarkdown(rep.Source))
	fmt.Fprintf(&b, "🔍 *Description:*\n%s\n\n", EscapeMarkdown(rep.Description))
	b.WriteString("⚠️ *Warning Signs:*\n")
	for _, sign := range rep.WarningSigns {
		fmt.Fprintf(&b, "• %s\n", EscapeMarkdown(sign))
	}
	b.WriteString("\n💡 *Recommendations:*\n")
	for _, rec := range rep.Recommendations {
		fmt.Fprintf(&b, "• %s\n", EscapeMarkdown(rec))
	}
	return b.String()
}

// ScamClean is the reply when no report exists for an address.
func ScamClean() string {
	return "✅ Token not found in scam database\\. However, always DYOR\\!"
}

// RiskChangeAlert renders the watch-mode notification for a risk level
// change.
func RiskChangeAlert(address, symbol string, previous, current analysis.RiskLevel) string {
	return fmt.Sprintf("%s *Risk change for %s \\(%s\\)*\n`%s` → `%s`",
		levelEmoji(current),
		EscapeMarkdown(symbol),
		EscapeMarkdown(address),
		EscapeMarkdown(strings.ToUpper(string(previous))),
		EscapeMarkdown(strings.ToUpper(string(current))))
}
