package services

import (
	"fmt"
	"html"
	"strings"
)

func FormatBold(text string) string {
	return fmt.Sprintf("<b>%s</b>", html.EscapeString(text))
}

func FormatItalic(text string) string {
	return fmt.Sprintf("<i>%s</i>", html.EscapeString(text))
}

func EscapeText(text string) string {
	return html.EscapeString(text)
}

func SafeConcat(parts ...string) string {
	var sb strings.Builder
	for _, part := range parts {
		sb.WriteString(part)
	}
	return sb.String()
}
