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
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vine-io/mindmap"
)

var checkCmd = &cobra.Command{
	Use:   "check [file...]",
	Short: "Load maps and report errors and dangling references",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		results, stats, err := mindmap.LoadFiles(ctx, s.reader, args, s.cfg.Workers)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, r := range results {
			if r.Err != nil {
				fmt.Fprintf(out, "FAIL %s: %v\n", r.Path, r.Err)
				continue
			}
			fmt.Fprintf(out, "ok   %s: %d nodes\n", r.Path, r.Result.Document.Len())
			for _, ref := range r.Result.Unresolved {
				fmt.Fprintf(out, "     %s %s -> %s unresolved\n", ref.Kind, ref.SourceID, ref.TargetID)
			}
		}
		fmt.Fprintf(out, "%d loaded, %d failed, %d unresolved references\n", stats.Loaded, stats.Failed, stats.Unresolved)

		if stats.Failed > 0 {
			return fmt.Errorf("%d of %d maps failed", stats.Failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
