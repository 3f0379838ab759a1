package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/zoomport/internal/ui/styles"
	"github.com/zjrosen/zoomport/internal/zoom"
)

var channelsYAML bool

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "Show the channel-to-track layout",
	Long: `Show how recorder files map to channels: the filename label of each
channel (channel 3 also answers to "trlr", the lavalier track), and the order
tracks are created in. A channel with no files in any take folder gets no
track; the rest pack into slots from the top of the project.`,
	RunE: runChannels,
}

func init() {
	channelsCmd.Flags().BoolVar(&channelsYAML, "yaml", false, "print the layout as YAML")
	rootCmd.AddCommand(channelsCmd)
}

func runChannels(cmd *cobra.Command, args []string) error {
	channels := zoom.DefaultChannels()
	out := cmd.OutOrStdout()

	if channelsYAML {
		data, err := yaml.Marshal(channels)
		if err != nil {
			return fmt.Errorf("failed to render channels: %w", err)
		}
		_, err = out.Write(data)
		return err
	}

	rows := make([][]string, 0, len(channels))
	for i, ch := range channels {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			ch.Name,
			strings.Join(ch.Variants, ", "),
			fmt.Sprintf("251101_000000_%s.WAV", strings.ToUpper(ch.Variants[0])),
		})
	}
	fmt.Fprint(out, styles.Table([]string{"#", "CHANNEL", "LABELS", "EXAMPLE FILE"}, rows))
	fmt.Fprintln(out, "\nMatching is case-insensitive; any extension spelled with w/a/v counts (wav, WAV, waw).")
	return nil
}
