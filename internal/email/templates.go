package email

import (
	"fmt"
	"html"
	"strings"
)

const brandName = "Give My Menu"

const (
	welcomeSubject = "Welcome to " + brandName + "!"
	adminSubject   = "New Early Access Signup"
)

func layout(title string, paragraphs ...string) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">` + "\n")
	b.WriteString(fmt.Sprintf(`<h1 style="color: #eb8036;">%s</h1>`+"\n", html.EscapeString(title)))
	for _, p := range paragraphs {
		b.WriteString("<p>" + p + "</p>\n")
	}
	b.WriteString("</div>\n")
	return b.String()
}

func welcomeBody() string {
	return layout(welcomeSubject,
		"Thank you for joining our early access program. We're excited to have you on board!",
		"We'll keep you updated on our progress and let you know as soon as we're ready to launch.",
		"In the meantime, feel free to reach out if you have any questions.",
		"Best regards,<br>The "+brandName+" Team",
	)
}

// adminBody escapes the subscriber address since it is user input.
func adminBody(subscriber string) string {
	return layout(adminSubject,
		"A new user has signed up for early access:",
		"<strong>Email:</strong> "+html.EscapeString(subscriber),
		"You can view all signups in your admin dashboard.",
	)
}
