package gallery

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/yuin/goldmark"

	"showcase/internal/manifest"
)

var md = goldmark.New()

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`,
	"[", `\[`, "]", `\]`, "(", `\(`, ")", `\)`,
	"#", `\#`, "!", `\!`, "<", `\<`, ">", `\>`,
)

// Markdown renders the project cards as a Markdown document.
func Markdown(projects []manifest.Record, title string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", markdownEscaper.Replace(title))

	if len(projects) == 0 {
		b.WriteString("No projects yet.\n")
		return b.String()
	}

	for _, p := range projects {
		name := markdownEscaper.Replace(p.Name)
		fmt.Fprintf(&b, "## [%s](<%s>)\n\n", name, p.ProjectSrc)
		if p.ImgSrc != "" {
			fmt.Fprintf(&b, "[![%s](<%s>)](<%s>)\n\n", name, p.ImgSrc, p.ProjectSrc)
		}
		if len(p.Tags) > 0 {
			chips := make([]string, len(p.Tags))
			for i, tag := range p.Tags {
				chips[i] = "`" + strings.ReplaceAll(tag, "`", "'") + "`"
			}
			b.WriteString(strings.Join(chips, " "))
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "*Updated %s*\n\n", markdownEscaper.Replace(FormatDate(p.UpdatedAt)))
	}
	return b.String()
}

// Export writes a standalone HTML page with one card per project.
func Export(w io.Writer, projects []manifest.Record, title string) error {
	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(projects, title)), &body); err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}

	_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body>
<main class="content">
%s</main>
</body>
</html>
`, html.EscapeString(title), body.String())
	return err
}
