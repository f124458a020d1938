package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"github.com/vozeel/gator/docs"
)

// topicCmd displays an embedded help topic.
type topicCmd struct{}

func (*topicCmd) Name() string           { return "topic" }
func (*topicCmd) Synopsis() string       { return "display a help topic" }
func (*topicCmd) SetFlags(*flag.FlagSet) {}
func (*topicCmd) Usage() string {
	return `gator topic [<name>]

  Without a name, lists the available topics.

`
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		topics, err := docs.Topics()
		if err != nil {
			return fail(err)
		}
		var b strings.Builder
		b.WriteString("# Help topics\n\n")
		for _, t := range topics {
			fmt.Fprintf(&b, "- **%s**: %s\n", t.Name, t.Title)
		}
		display(b.String())
		return subcommands.ExitSuccess
	}

	src, err := docs.Get(f.Arg(0))
	if err != nil {
		return usageError(err)
	}
	display(src)
	return subcommands.ExitSuccess
}
