package cmd

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/aweris/vtree"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive shell over an in-memory tree",
	Long:  "Start a REPL on a fresh tree. Use save/load to move snapshot archives to and from disk.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	policy, err := vtree.ParsePolicy(getPolicy())
	if err != nil {
		return err
	}

	tree := vtree.New(vtree.WithPolicy(policy))

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Printf("%s> ", tree.WorkingDirectory())

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) > 0 {
			if fields[0] == "exit" || fields[0] == "quit" {
				break
			}
			if next, err := eval(tree, fields); err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
			} else if next != nil {
				tree = next
			}
		}
		fmt.Printf("%s> ", tree.WorkingDirectory())
	}

	return scanner.Err()
}

// eval runs one shell command. It returns a non-nil tree when the command
// replaced the current tree (load).
func eval(tree *vtree.Tree, fields []string) (*vtree.Tree, error) {
	name, args := fields[0], fields[1:]

	switch name {
	case "help":
		printHelp()
	case "pwd":
		fmt.Println(tree.WorkingDirectory())
	case "ls":
		path := "."
		if len(args) > 0 {
			path = args[0]
		}
		return nil, listFolder(tree, path)
	case "cd":
		if len(args) != 1 {
			return nil, fmt.Errorf("usage: cd <path>")
		}
		return nil, tree.ChangeDirectory(args[0])
	case "mkdir":
		if len(args) != 1 {
			return nil, fmt.Errorf("usage: mkdir <path>")
		}
		_, base := splitArg(args[0])
		_, err := tree.Create(vtree.NewFolder(base), args[0])
		return nil, err
	case "write":
		if len(args) < 2 {
			return nil, fmt.Errorf("usage: write <path> <content>")
		}
		content := []byte(strings.Join(args[1:], " "))
		if file, err := tree.FileAt(args[0]); err == nil {
			file.SetContent(content)
			return nil, nil
		}
		_, base := splitArg(args[0])
		_, err := tree.Create(vtree.NewFile(base, content), args[0])
		return nil, err
	case "cat":
		if len(args) != 1 {
			return nil, fmt.Errorf("usage: cat <path>")
		}
		file, err := tree.FileAt(args[0])
		if err != nil {
			return nil, err
		}
		fmt.Println(string(file.Content()))
	case "rm":
		if len(args) != 1 {
			return nil, fmt.Errorf("usage: rm <path>")
		}
		removed, err := tree.Remove(args[0])
		if err != nil {
			return nil, err
		}
		if !removed {
			return nil, fmt.Errorf("%s: nothing to remove", args[0])
		}
	case "find":
		if len(args) != 1 {
			return nil, fmt.Errorf("usage: find <name>")
		}
		matches := tree.Search(args[0])
		if len(matches) == 0 {
			fmt.Println("(no matches)")
		}
		for _, e := range matches {
			fmt.Println(describe(e))
		}
	case "save":
		if len(args) != 1 {
			return nil, fmt.Errorf("usage: save <file>")
		}
		return nil, saveSnapshot(tree, args[0])
	case "load":
		if len(args) != 1 {
			return nil, fmt.Errorf("usage: load <file>")
		}
		return loadSnapshot(args[0])
	default:
		return nil, fmt.Errorf("unknown command %q (try help)", name)
	}

	return nil, nil
}

func listFolder(tree *vtree.Tree, path string) error {
	folder, err := tree.FolderAt(path)
	if err != nil {
		return err
	}

	var lines []string
	for entry := range folder.Entries() {
		lines = append(lines, describe(entry))
	}
	sort.Strings(lines)

	for _, line := range lines {
		fmt.Println(line)
	}
	if len(lines) == 0 {
		fmt.Println("(empty)")
	}
	return nil
}

func describe(e vtree.Entry) string {
	if _, err := vtree.AsFolder(e); err == nil {
		return e.Name() + "/"
	}
	return e.Name()
}

func saveSnapshot(tree *vtree.Tree, path string) error {
	snap, err := tree.Snapshot()
	if err != nil {
		return err
	}
	data, err := snap.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	fmt.Printf("saved %d objects, root %s\n", snap.Len(), snap.RootHash()[:12])
	return nil
}

func loadSnapshot(path string) (*vtree.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	snap, err := vtree.DecodeSnapshot(data)
	if err != nil {
		return nil, err
	}

	policy, err := vtree.ParsePolicy(getPolicy())
	if err != nil {
		return nil, err
	}

	tree, err := vtree.Restore(snap, vtree.WithPolicy(policy))
	if err != nil {
		return nil, err
	}
	fmt.Printf("loaded %d objects, root %s\n", snap.Len(), snap.RootHash()[:12])
	return tree, nil
}

func splitArg(path string) (dir, base string) {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return ".", path
	}
	return path[:idx], path[idx+1:]
}

func printHelp() {
	fmt.Print(`commands:
  ls [path]              list folder contents
  cd <path>              change working directory
  pwd                    print working directory
  mkdir <path>           create a folder
  write <path> <text>    create or update a file
  cat <path>             print file content
  rm <path>              remove an entry and its subtree
  find <name>            search the whole tree by name
  save <file>            write a snapshot archive to disk
  load <file>            replace the tree from a snapshot archive
  exit                   leave the shell
`)
}
