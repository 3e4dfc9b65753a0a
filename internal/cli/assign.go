package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/timeslots/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "assign <slot-id> <category>",
		Short: "Set the category of a slot",
		Long: `Set the category of a slot. The correction is fed back into the smart
guesses: a guess that produced a different category is struck, and a
located slot without a guess teaches a new one.`,
		Args: cobra.ExactArgs(2),
		Run:  runAssign,
	}

	RootCmd.AddCommand(cmd)
}

func runAssign(cmd *cobra.Command, args []string) {
	cat, err := model.ParseCategory(args[1])
	if err != nil {
		exitErr("assign", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	slot, err := newPipeline(s).Reassign(cmd.Context(), args[0], cat)
	if err != nil {
		exitErr("assign", err)
	}

	b, _ := json.Marshal(slot)
	fmt.Println(string(b))
}
