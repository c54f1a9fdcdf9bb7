package commands

import (
	"fmt"
	"strings"

	"github.com/latoulicious/hutbot/pkg/embed"
	"github.com/latoulicious/hutbot/pkg/textutil"
	"github.com/samber/lo"
)

// NewHelpCommand lists the commands in registry, or details one of them
func NewHelpCommand(registry *Registry) *Command {
	return &Command{
		Name:        "help",
		Aliases:     []string{"h", "commands"},
		Description: "List commands or show how to use one",
		Usage:       "[command]",
		Examples:    []string{"", "serverinfo"},
		Category:    "general",
		Run: func(c *Context) error {
			builder := embed.NewEmbedBuilder()

			if len(c.Args) == 0 {
				_, err := c.ReplyEmbed(builder.Info("Commands", commandList(registry, c.Prefix)))
				return err
			}

			cmd, ok := registry.Lookup(c.Args[0])
			if !ok {
				_, err := c.ReplyEmbed(builder.Warning("Unknown command", fmt.Sprintf("No command called %s.", textutil.InlineCode(c.Args[0]))))
				return err
			}

			details := builder.Info(textutil.StartCase(cmd.Name), cmd.Description)
			details.Fields = append(details.Fields, embed.Field("Usage", textutil.InlineCode(strings.TrimSpace(c.Prefix+cmd.Name+" "+cmd.Usage)), false))
			if len(cmd.Aliases) > 0 {
				aliases := lo.Map(cmd.Aliases, func(alias string, _ int) string { return textutil.InlineCode(alias) })
				details.Fields = append(details.Fields, embed.Field("Aliases", strings.Join(aliases, ", "), false))
			}
			if len(cmd.Examples) > 0 {
				examples := lo.Map(cmd.Examples, func(example string, _ int) string {
					return textutil.InlineCode(strings.TrimSpace(c.Prefix + cmd.Name + " " + example))
				})
				details.Fields = append(details.Fields, embed.Field("Examples", strings.Join(examples, "\n"), false))
			}

			_, err := c.ReplyEmbed(details)
			return err
		},
	}
}

// commandList renders one section per category
func commandList(registry *Registry, prefix string) string {
	grouped := lo.GroupBy(registry.Commands(), func(cmd *Command) string { return cmd.Category })
	categories := lo.Uniq(lo.Map(registry.Commands(), func(cmd *Command, _ int) string { return cmd.Category }))

	sections := lo.Map(categories, func(category string, _ int) string {
		lines := lo.Map(grouped[category], func(cmd *Command, _ int) string {
			return fmt.Sprintf("%s %s", textutil.InlineCode(prefix+cmd.Name), cmd.Description)
		})
		return fmt.Sprintf("**%s**\n%s", textutil.StartCase(category), textutil.Bullets(lines))
	})
	return strings.Join(sections, "\n\n")
}
