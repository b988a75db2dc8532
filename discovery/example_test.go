package discovery_test

import (
	"context"
	"fmt"

	"github.com/jonwraymond/navrank/discovery"
	"github.com/jonwraymond/navrank/entry"
	"github.com/jonwraymond/navrank/rank"
	"github.com/jonwraymond/navrank/tree"
)

func ExampleDiscovery_Search() {
	disc, _ := discovery.New(discovery.Options{
		Rank: rank.Options{Threshold: 0.1},
	})
	defer disc.Close()

	_ = disc.Load([]tree.Node{
		{Label: "Notes", Children: []tree.Node{
			{Label: "Open README", Type: entry.KindMarkdown, Target: "README.md"},
			{Label: "Changelog", Type: entry.KindMarkdown, Target: "CHANGELOG.md"},
		}},
	})

	results, _ := disc.Search(context.Background(), "readme", 5)
	for _, r := range results {
		node, _ := disc.Resolve(r)
		fmt.Printf("%s -> %s %v\n", r.Entry.Label, node.Target, r.Highlights)
	}
	// Output:
	// Open README -> README.md [5 6 7 8 9 10]
}

func ExampleResults_FilterByCategory() {
	results := discovery.Results{
		{Entry: entry.Entry{Label: "Deploy", Category: "Work"}},
		{Entry: entry.Entry{Label: "Build logs", Category: "Work / CI"}},
		{Entry: entry.Entry{Label: "Recipes", Category: "Home"}},
	}
	fmt.Println(results.FilterByCategory("Work").Labels())
	// Output:
	// [Deploy Build logs]
}
