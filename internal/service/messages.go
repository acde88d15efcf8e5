package service

import (
	"fmt"
	"html"
	"time"
)

const weddingDateLayout = "Monday, 2 January 2006"

func verificationEmail(to, name, code, link string) EmailMessage {
	text := fmt.Sprintf("Hi %s,\n\nYour verification code is %s.", displayName(name, to), code)
	body := fmt.Sprintf("<p>Hi %s,</p><p>Your verification code is <b>%s</b>.</p>", html.EscapeString(displayName(name, to)), code)
	if link != "" {
		text += fmt.Sprintf("\nOr verify directly: %s", link)
		body += fmt.Sprintf("<p>Or <a href=\"%s\">verify your account</a> directly.</p>", html.EscapeString(link))
	}
	return EmailMessage{
		To:      to,
		Subject: "Verify your account",
		HTML:    body,
		Text:    text,
	}
}

func verificationWhatsApp(name, code, link string) string {
	message := fmt.Sprintf("Hi %s, your verification code is %s.", name, code)
	if link != "" {
		message += " " + link
	}
	return message
}

func reminderEmail(to, name string, weddingDate time.Time, days int, planName string) EmailMessage {
	when := countdown(days)
	date := weddingDate.Format(weddingDateLayout)
	name = displayName(name, to)
	text := fmt.Sprintf("Hi %s,\n\nYour wedding on %s is %s.\nPlan: %s", name, date, when, planName)
	body := fmt.Sprintf("<p>Hi %s,</p><p>Your wedding on <b>%s</b> is %s.</p><p>Plan: %s</p>",
		html.EscapeString(name), date, when, html.EscapeString(planName))
	return EmailMessage{
		To:      to,
		Subject: fmt.Sprintf("Your wedding is %s", when),
		HTML:    body,
		Text:    text,
	}
}

func adminNoticeEmail(to, ownerEmail, slug string, weddingDate time.Time) EmailMessage {
	date := weddingDate.Format(weddingDateLayout)
	return EmailMessage{
		To:      to,
		Subject: fmt.Sprintf("Wedding in 7 days: %s", slug),
		HTML: fmt.Sprintf("<p>Owner: %s</p><p>Page: %s</p><p>Wedding date: %s</p>",
			html.EscapeString(ownerEmail), html.EscapeString(slug), date),
		Text: fmt.Sprintf("Owner: %s\nPage: %s\nWedding date: %s", ownerEmail, slug, date),
	}
}

func countdown(days int) string {
	switch days {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	default:
		return fmt.Sprintf("in %d days", days)
	}
}

func displayName(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
