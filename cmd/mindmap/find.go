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

	"github.com/spf13/cobra"

	"github.com/vine-io/mindmap"
)

var (
	findFrom     string
	findBackward bool
)

var findCmd = &cobra.Command{
	Use:   "find [file] [text]",
	Short: "Find nodes whose text contains text",
	Long: "Without --from every matching node is printed in document order. " +
		"With --from only the next match after that node is printed, wrapping around the map.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}

		result, err := s.reader.LoadFile(args[0])
		if err != nil {
			return err
		}
		doc := result.Document
		cond := mindmap.TextContains(args[1])
		out := cmd.OutOrStdout()

		if findFrom == "" {
			for _, n := range mindmap.FindAll(doc.Root(), cond) {
				fmt.Fprintf(out, "%s\t%s\n", n.ID, n.Text)
			}
			return nil
		}

		start, ok := doc.Lookup(findFrom)
		if !ok {
			return fmt.Errorf("node %s not found", findFrom)
		}
		direction := mindmap.Forward
		if findBackward {
			direction = mindmap.Backward
		}
		if n := mindmap.FindNext(start, direction, cond); n != nil {
			fmt.Fprintf(out, "%s\t%s\n", n.ID, n.Text)
			return nil
		}
		return fmt.Errorf("no node matches %q", args[1])
	},
}

func init() {
	findCmd.Flags().StringVar(&findFrom, "from", "", "Start after the node with this ID")
	findCmd.Flags().BoolVarP(&findBackward, "backward", "b", false, "Search backward from --from")
	rootCmd.AddCommand(findCmd)
}
