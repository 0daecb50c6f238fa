// Package ui renders the terminal splash art.
package ui

import "strings"

const (
	ansiReset  = "\x1b[0m"
	ansiYellow = "\x1b[38;5;226m"
	ansiOrange = "\x1b[38;5;208m"
	ansiBlack  = "\x1b[30m"
)

var duckLines = []string{
	"                                                  ",
	"                         :--                      ",
	"                      -:::----                    ",
	"                     -:::::----                   ",
	"                    -::::::--O---++++             ",
	"                    -:::::::-----==+              ",
	"                    --::::::-----=+               ",
	"                    ----:--------                 ",
	"                     -----------                  ",
	"                       ---------                  ",
	"          .::          -----------                ",
	"          :::::  -------:::----------             ",
	"          ::::--------::::::---------:            ",
	"          -::::----:::::::::----------:           ",
	"          -::::::::::-----------------::          ",
	"           ::::::::::::::--------------:          ",
	"           :::::::::::::::::-----------           ",
	"             ::::::::::---------------            ",
	"               .-------------------:              ",
	"                                                  ",
}

// DuckASCII is the plain logo for non-TTY output.
var DuckASCII = strings.Join(duckLines, "\n")

// RenderDuck colorizes the logo: yellow body, orange beak, black eye.
func RenderDuck() string {
	var out strings.Builder

	for _, line := range duckLines {
		active := ""
		for _, char := range line {
			if char == ' ' {
				if active != "" {
					out.WriteString(ansiReset)
					active = ""
				}
				out.WriteRune(' ')
				continue
			}

			next := ansiYellow
			if isBeakChar(char) {
				next = ansiOrange
			} else if isEyeChar(char) {
				next = ansiBlack
			}
			if active != next {
				out.WriteString(next)
				active = next
			}
			out.WriteRune('█')
		}
		if active != "" {
			out.WriteString(ansiReset)
		}
		out.WriteByte('\n')
	}

	return strings.TrimRight(out.String(), "\n")
}

// Banner draws a boxed one-line banner.
func Banner(text string) string {
	message := "* " + text
	horizontal := strings.Repeat("-", len(message)+2)
	return strings.Join([]string{
		"+" + horizontal + "+",
		"| " + message + " |",
		"+" + horizontal + "+",
	}, "\n")
}

func isBeakChar(char rune) bool {
	return char == '+' || char == '=' || char == '*'
}

func isEyeChar(char rune) bool {
	return char == 'O'
}
