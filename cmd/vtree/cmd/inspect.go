package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/aweris/vtree"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "List the contents of a snapshot archive",
	Long:  "Decode a snapshot archive and print every path it contains.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	snap, err := vtree.DecodeSnapshot(data)
	if err != nil {
		return err
	}

	tree, err := vtree.Restore(snap)
	if err != nil {
		return err
	}

	var paths []string
	collectPaths(tree.Root(), "", &paths)
	sort.Strings(paths)

	fmt.Printf("root %s (%d objects)\n", snap.RootHash(), snap.Len())
	for _, p := range paths {
		fmt.Println(p)
	}
	if len(paths) == 0 {
		fmt.Println("(empty tree)")
	}

	return nil
}

func collectPaths(folder *vtree.Folder, prefix string, out *[]string) {
	for entry := range folder.Entries() {
		path := prefix + "/" + entry.Name()
		if sub, err := vtree.AsFolder(entry); err == nil {
			*out = append(*out, path+"/")
			collectPaths(sub, path, out)
		} else {
			*out = append(*out, path)
		}
	}
}
