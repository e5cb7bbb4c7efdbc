package format

import (
	"strings"

	"github.com/4STO2NED0/gen-typescript-declarations/ts"
)

// printComment writes a JSDoc block for description, followed by @param tags
// for the described parameters and an @returns tag. Nothing is written when
// all of them are empty.
func (e *DeclarationEncoder) printComment(description string, params []ts.Param, returns string) {
	var lines []string
	if d := strings.TrimSpace(description); d != "" {
		lines = append(lines, strings.Split(d, "\n")...)
	}

	var tags []string
	for _, p := range params {
		if d := strings.TrimSpace(p.Description); d != "" {
			tags = append(tags, "@param "+p.Name+" "+d)
		}
	}
	if d := strings.TrimSpace(returns); d != "" {
		tags = append(tags, "@returns "+d)
	}
	if len(tags) > 0 {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		for _, tag := range tags {
			lines = append(lines, strings.Split(tag, "\n")...)
		}
	}
	if len(lines) == 0 {
		return
	}

	e.line("/**")
	for _, l := range lines {
		l = strings.TrimRight(escapeComment(l), " \t\r")
		if l == "" {
			e.line(" *")
			continue
		}
		e.line(" * %s", l)
	}
	e.line(" */")
}

func escapeComment(s string) string {
	return strings.ReplaceAll(s, "*/", `*\/`)
}
