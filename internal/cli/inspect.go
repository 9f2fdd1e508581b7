package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lottieframes/pkg/errors"
	"github.com/matzehuels/lottieframes/pkg/lottie"
)

func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [files...]",
		Short: "Print Lottie metadata without rendering",
		Example: `  lottieframes inspect bounce.json
  lottieframes inspect *.json`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeLottieFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for i, path := range args {
				if i > 0 {
					printNewline()
				}
				if err := inspectFile(path); err != nil {
					printError("%s", errors.UserMessage(err))
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files could not be inspected", failed, len(args))
			}
			return nil
		},
	}
}

func inspectFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc, err := lottie.Parse(data)
	if err != nil {
		return errors.ParseFailure(path, err)
	}

	fmt.Println(StyleTitle.Render(path))
	for _, kv := range inspectRows(doc) {
		printKeyValue(kv[0], kv[1])
	}
	for _, m := range doc.Markers {
		printDetail("marker %q at frame %g (%g frames)", m.Comment, m.Time, m.Duration)
	}
	return nil
}

// inspectRows lists the metadata of doc as key/value pairs.
func inspectRows(doc *lottie.Document) [][2]string {
	name := doc.Name
	if name == "" {
		name = "-"
	}
	version := doc.Version
	if version == "" {
		version = "-"
	}
	return [][2]string{
		{"Name", name},
		{"Version", version},
		{"Frame rate", fmt.Sprintf("%g fps", doc.FrameRate)},
		{"In/Out", fmt.Sprintf("%g → %g", doc.InPoint, doc.OutPoint)},
		{"Size", fmt.Sprintf("%g×%g", doc.Width, doc.Height)},
		{"Frames", fmt.Sprint(doc.TotalFrames())},
		{"Duration", doc.Duration().Round(time.Millisecond).String()},
		{"Layers", fmt.Sprint(doc.LayerCount())},
	}
}
