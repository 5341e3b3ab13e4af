package publish

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"rowlist/internal/model"
)

func fixture() (model.List, []model.Row) {
	now := time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC)
	l := model.List{ID: "lst-test", Name: "Weekend Chores", CreatedAt: now}
	rows := []model.Row{
		{ID: "row-a", ListID: l.ID, Title: "Sweep", Notes: "kitchen first\n\n**then** hall"},
		{ID: "row-b", ListID: l.ID, Title: "Laundry :smile:"},
	}
	return l, rows
}

func TestRenderListMarkdown_OrderedRowsWithNotes(t *testing.T) {
	t.Parallel()

	l, rows := fixture()
	md := RenderListMarkdown(l, rows, RenderOptions{IncludeNotes: true, IncludeIDs: true})

	for _, want := range []string{
		"# Weekend Chores\n",
		"1. Sweep `row-a`\n",
		"   kitchen first\n",
		"   **then** hall\n",
		"2. Laundry :smile: `row-b`\n",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected markdown to contain %q; got:\n%s", want, md)
		}
	}
	if strings.Index(md, "Sweep") > strings.Index(md, "Laundry") {
		t.Fatalf("rows out of order:\n%s", md)
	}
}

func TestRenderListMarkdown_Empty(t *testing.T) {
	t.Parallel()

	md := RenderListMarkdown(model.List{ID: "lst-x"}, nil, RenderOptions{})
	if !strings.Contains(md, "# lst-x") || !strings.Contains(md, "_No rows._") {
		t.Fatalf("unexpected markdown:\n%s", md)
	}
}

func TestRenderListHTML_UsesGFMAndEmoji(t *testing.T) {
	t.Parallel()

	l, rows := fixture()
	out, err := RenderListHTML(l, rows, RenderOptions{IncludeNotes: true})
	if err != nil {
		t.Fatalf("RenderListHTML: %v", err)
	}
	for _, want := range []string{"<title>Weekend Chores</title>", "<ol>", "<strong>then</strong>"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected html to contain %q; got:\n%s", want, out)
		}
	}
	if strings.Contains(out, ":smile:") {
		t.Fatalf("expected emoji shortcode to be rendered; got:\n%s", out)
	}
}

func TestWriteList_RefusesOverwrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	l, rows := fixture()
	opt := WriteOptions{Kind: Markdown}

	res, err := WriteList(nil, dir, l, rows, opt)
	if err != nil {
		t.Fatalf("WriteList: %v", err)
	}
	want := filepath.Join(dir, "weekend-chores.md")
	if len(res.Written) != 1 || res.Written[0] != want {
		t.Fatalf("unexpected written paths: %v", res.Written)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected file: %v", err)
	}
	if _, err := WriteList(nil, dir, l, rows, opt); err == nil {
		t.Fatalf("expected second write without overwrite to fail")
	}
	opt.Overwrite = true
	if _, err := WriteList(nil, dir, l, rows, opt); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
}

func TestWriteList_ToWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l, rows := fixture()
	if _, err := WriteList(&buf, "", l, rows, WriteOptions{Kind: HTML}); err != nil {
		t.Fatalf("WriteList: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "<!doctype html>") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Kind{"": Markdown, "md": Markdown, "markdown": Markdown, "HTML": HTML} {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Fatalf("ParseKind(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseKind("pdf"); err == nil {
		t.Fatalf("expected error")
	}
}
