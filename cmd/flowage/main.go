package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/viant/flowage"
	"github.com/viant/flowage/activity"
	"github.com/viant/flowage/cfg"
	"github.com/viant/flowage/liveness"
	"github.com/viant/flowage/parse"
	"github.com/viant/flowage/qualname"
	"github.com/viant/flowage/report"
	"github.com/viant/flowage/tree"
	"gopkg.in/yaml.v3"
)

var (
	funcName   = flag.String("func", "", "analyze only the named function")
	scopeDecls = flag.Bool("scope-decls", false, "recognize global/nonlocal declarations")
)

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: flowage [-func name] [-scope-decls] <source-file>")
		os.Exit(1)
	}
	if err := run(context.Background(), flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "flowage: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, location string) error {
	loader := parse.NewLoader()
	source, err := loader.Load(ctx, location)
	if err != nil {
		return err
	}
	parser := parse.New()
	scopes, err := parser.Scopes(ctx, source.Data)
	if err != nil {
		return err
	}
	for _, scope := range scopes {
		if *funcName != "" && scope.Text != *funcName {
			continue
		}
		out, err := analyze(scope, source)
		if err != nil {
			return fmt.Errorf("%s: %w", scope.Text, err)
		}
		data, err := yaml.Marshal(out)
		if err != nil {
			return err
		}
		fmt.Printf("---\n%s", data)
	}
	return nil
}

// analyze runs the pass pipeline in dependency order for one scope: qualname,
// activity, cfg, liveness, then the report over the populated annotations.
func analyze(scope *tree.Node, source *parse.Source) (*report.Report, error) {
	options := []flowage.Option{
		flowage.WithSource(string(source.Data)),
		flowage.WithUnit(source.Unit),
	}
	if *scopeDecls {
		options = append(options, flowage.WithScopeDecls())
	}
	session := flowage.NewContext(scope.Text, options...)

	tree.NewIndex(scope)
	qualname.Annotate(session, scope)
	if _, err := activity.Resolve(session, scope); err != nil {
		return nil, err
	}
	graph, err := cfg.Build(session, scope)
	if err != nil {
		return nil, err
	}
	if err := liveness.Resolve(session, graph); err != nil {
		return nil, err
	}
	return report.Build(session, scope)
}
