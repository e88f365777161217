package tui

import "strings"

func (m Model) viewLogin() string {
	if m.width == 0 || m.height == 0 {
		return "Login required..."
	}

	title := titleStyle.Render("iglens")
	instructions := "Log in with Instagram to search accounts and fetch post insights."
	help := navStyle.Render("enter: log in  q: quit")

	banner := ""
	if m.errMsg != "" {
		banner = m.renderBanner(m.errMsg)
	}

	content := []string{
		title,
		"",
		instructions,
		"",
		banner,
		"",
		help,
	}

	block := strings.Join(content, "\n")
	return strings.Repeat(" ", 4) + strings.ReplaceAll(block, "\n", "\n    ")
}

// renderBanner colors an error banner, with one cosmetic exception: the
// provider's used-code message reads like a success to the user, so it
// keeps the success color.
func (m Model) renderBanner(text string) string {
	if text == usedCodeText {
		return successStyle.Render(text)
	}
	return errorStyle.Render(text)
}
