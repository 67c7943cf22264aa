// Command svports-demo elaborates a small, hand-built ANSI port list
// and prints the resulting ports and diagnostics as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/svlang/svports"
	"github.com/svlang/svports/internal/diag"
	"github.com/svlang/svports/internal/ir"
	"github.com/svlang/svports/internal/source"
)

func main() {
	var (
		strict  = flag.Bool("strict", false, "use strict LRM direction defaulting")
		verbose = flag.Bool("v", false, "enable trace-level logging")
	)
	flag.Parse()

	var handler slog.Handler
	level := slog.LevelWarn
	if *verbose {
		level = source.LevelTrace
	}
	handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler)

	cfg := svports.DefaultConfig()
	if *strict {
		cfg = svports.StrictConfig()
	}

	scope := svports.NewBasicScope(cfg)
	list := exampleAnsiPortList()

	ports := svports.BuildAnsiPortList(list, scope, scope, cfg, logger)

	var out strings.Builder
	out.WriteByte('[')
	for i, p := range ports {
		if i > 0 {
			out.WriteByte(',')
		}
		p.Serialize(&out)
	}
	out.WriteByte(']')

	var pretty any
	if err := json.Unmarshal([]byte(out.String()), &pretty); err != nil {
		fmt.Fprintln(os.Stderr, "internal serialization error:", err)
		os.Exit(1)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(map[string]any{
		"ports":       pretty,
		"diagnostics": diagStrings(scope.Diagnostics().Items()),
	})
}

func diagStrings(items []diag.Diagnostic) []string {
	out := make([]string, len(items))
	for i, d := range items {
		out[i] = d.String()
	}
	return out
}

// exampleAnsiPortList builds the three-port ANSI inheritance example:
// an `input` port that inherits nothing, followed by two ports that
// inherit its direction and type.
func exampleAnsiPortList() *ir.AnsiPortList {
	sp := source.NewSpan(0, 1)
	return &ir.AnsiPortList{
		Ports: []ir.AnsiPortDeclaration{
			{
				Header: ir.AnsiPortHeader{
					Span:      sp,
					Direction: ir.DirIn,
					Type:      ir.TypeSyntax{Name: "logic"},
				},
				Declarators: []ir.Declarator{{Name: "a", Span: sp}},
			},
			{
				Header: ir.AnsiPortHeader{
					Span:                     sp,
					IsBareVariablePortHeader: true,
				},
				Declarators: []ir.Declarator{{Name: "b", Span: sp}},
			},
			{
				Header: ir.AnsiPortHeader{
					Span:                     sp,
					IsBareVariablePortHeader: true,
				},
				Declarators: []ir.Declarator{{Name: "c", Span: sp}},
			},
		},
	}
}
