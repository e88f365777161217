package tui

import "strings"

func (m Model) viewAuthorizing() string {
	if m.width == 0 || m.height == 0 {
		return "\n\n   " + m.spinner.View() + " Waiting for authorization...\n\n"
	}

	logo := []string{
		" ___  ____  _      _____  _   _  ____",
		"|_ _|/ ___|| |    | ____|| \\ | |/ ___|",
		" | || |  _ | |    |  _|  |  \\| |\\___ \\",
		" | || |_| || |___ | |___ | |\\  | ___) |",
		"|___|\\____||_____||_____||_| \\_||____/",
	}

	blockHeight := len(logo) + 4
	startRow := (m.height - blockHeight) / 2
	if startRow < 0 {
		startRow = 0
	}

	var b strings.Builder
	b.WriteString(strings.Repeat("\n", startRow))

	for _, text := range logo {
		pad := (m.width - len(text)) / 2
		if pad < 0 {
			pad = 0
		}
		b.WriteString(strings.Repeat(" ", pad) + titleStyle.Render(text) + "\n")
	}

	status := "Waiting for authorization in the browser window..."
	hint := "Complete the Instagram login in the window that just opened."

	b.WriteString("\n")
	b.WriteString(centerLine(m.spinner.View()+" "+status, len(status)+2, m.width) + "\n")
	b.WriteString("\n")
	b.WriteString(centerLine(navStyle.Render(hint), len(hint), m.width))

	return b.String()
}

// centerLine pads a styled line by its printable width.
func centerLine(rendered string, printable, width int) string {
	pad := (width - printable) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + rendered
}
