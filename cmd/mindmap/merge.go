// MIT License
//
// Copyright (c) 2023 Lack
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vine-io/mindmap"
)

var (
	mergeParent string
	mergeOutput string
)

var mergeCmd = &cobra.Command{
	Use:   "merge [dst] [src]",
	Short: "Copy the tree of src below a node of dst",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}

		ws := mindmap.NewWorkspace(s.reader, s.writer)
		dst, err := openFile(ws, args[0])
		if err != nil {
			return err
		}
		src, err := openFile(ws, args[1])
		if err != nil {
			return err
		}

		parent := dst.Root()
		if mergeParent != "" {
			var ok bool
			if parent, ok = dst.Lookup(mergeParent); !ok {
				return fmt.Errorf("node %s not found in %s", mergeParent, args[0])
			}
		}

		result, err := ws.Merge(dst, parent, src)
		if err != nil {
			return err
		}
		for from, to := range result.Remaps {
			fmt.Fprintf(cmd.ErrOrStderr(), "remapped %s -> %s\n", from, to)
		}

		if mergeOutput != "" {
			return s.writer.WriteFile(dst, mergeOutput)
		}
		return s.writer.Write(dst, cmd.OutOrStdout())
	},
}

func openFile(ws *mindmap.Workspace, name string) (*mindmap.Document, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	result, err := ws.Open(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return result.Document, nil
}

func init() {
	mergeCmd.Flags().StringVarP(&mergeParent, "parent", "p", "", "ID of the dst node receiving the copy (default root)")
	mergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "", "Write the merged map to this file instead of stdout")
	rootCmd.AddCommand(mergeCmd)
}
