package rank_test

import (
	"fmt"

	"github.com/jonwraymond/navrank/entry"
	"github.com/jonwraymond/navrank/rank"
)

func ExampleRankEntries() {
	entries := []entry.Entry{
		{ID: 0, Label: "Open README", Description: "project readme", Kind: entry.KindMarkdown},
		{ID: 1, Label: "Build project", Description: "make build", Kind: entry.KindShell},
		{ID: 2, Label: "Issue tracker", Kind: entry.KindURL},
	}

	opts := rank.DefaultOptions()
	opts.Threshold = 0.1

	// "opn" is one edit away from "open".
	for _, r := range rank.RankEntries(entries, "opn readme", []string{"label", "description"}, opts) {
		fmt.Printf("%.2f %s\n", r.Score, r.Entry.Label)
	}
	// Output:
	// 0.65 Open README
}

func ExampleRank() {
	type bookmark struct {
		Title string
		URL   string
	}
	bookmarks := []bookmark{
		{"Go documentation", "https://go.dev/doc"},
		{"Package index", "https://pkg.go.dev"},
	}

	field := func(b bookmark, name string) (string, bool) {
		switch name {
		case "title":
			return b.Title, true
		case "url":
			return b.URL, true
		}
		return "", false
	}

	results := rank.Rank(bookmarks, "go", []string{"title", "url"}, field, rank.Options{Threshold: 0.1})
	for _, r := range results {
		fmt.Printf("%.2f %s\n", r.Score, r.Entry.Title)
	}
	// Output:
	// 0.90 Go documentation
	// 0.90 Package index
}

func ExampleExplain() {
	e := entry.Entry{Label: "Deploy staging", Description: "ship to staging"}
	exp := rank.Explain(e, "deploj", []string{"label"}, entry.FielderFunc[entry.Entry](), rank.Options{})

	t := exp.Terms[0]
	fmt.Printf("%s %s %s %.2f\n", t.Term, t.Tier, t.Field, t.Score)
	// Output:
	// deploj typo label 0.50
}
