package publish

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"rowlist/internal/model"
)

type RenderOptions struct {
	// IncludeNotes writes row notes under each row.
	IncludeNotes bool
	// IncludeIDs appends the row id to each row.
	IncludeIDs bool
}

// RenderListMarkdown renders a list as a Markdown document: a heading, the
// rows as an ordered list in the given order, and each row's notes indented
// beneath it.
func RenderListMarkdown(l model.List, rows []model.Row, opt RenderOptions) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	name := strings.TrimSpace(l.Name)
	if name == "" {
		name = l.ID
	}
	writeLn("# " + name)
	writeLn("")
	if !l.CreatedAt.IsZero() {
		writeLn("_Created " + l.CreatedAt.UTC().Format(time.RFC3339) + "_")
		writeLn("")
	}

	if len(rows) == 0 {
		writeLn("_No rows._")
		return buf.String()
	}

	for i, r := range rows {
		marker := strconv.Itoa(i+1) + ". "
		line := marker + strings.TrimSpace(r.Title)
		if opt.IncludeIDs {
			line += " `" + r.ID + "`"
		}
		writeLn(line)

		notes := strings.TrimSpace(r.Notes)
		if !opt.IncludeNotes || notes == "" {
			continue
		}
		pad := strings.Repeat(" ", len(marker))
		writeLn("")
		for _, nl := range strings.Split(notes, "\n") {
			nl = strings.TrimRight(nl, " \t")
			if nl == "" {
				writeLn("")
				continue
			}
			writeLn(pad + nl)
		}
		writeLn("")
	}
	return buf.String()
}
