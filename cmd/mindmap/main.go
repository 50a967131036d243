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
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vine-io/mindmap"
	"github.com/vine-io/mindmap/config"
)

var (
	configPath string
	policyName string
)

var rootCmd = &cobra.Command{
	Use:           "mindmap",
	Short:         "Check, format, merge and inspect mind map files",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default "+config.DefaultPath+")")
	rootCmd.PersistentFlags().StringVar(&policyName, "references", "", "Dangling reference policy: report, drop or fail")
}

// session is what every command needs to read and write maps.
type session struct {
	cfg    *config.Config
	reader *mindmap.Reader
	writer *mindmap.Writer
}

func newSession() (*session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if policyName != "" {
		cfg.ReferencePolicy = policyName
		if err = cfg.Validate(); err != nil {
			return nil, err
		}
	}

	_, reader, writer, err := cfg.Setup()
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, reader: reader, writer: writer}, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "mindmap:", err)
		os.Exit(1)
	}
}
