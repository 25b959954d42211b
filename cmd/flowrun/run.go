package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/Tsinling0525/flowrun/format/env"
	"github.com/Tsinling0525/flowrun/format/reactflow"
	"github.com/Tsinling0525/flowrun/infra"
	"github.com/Tsinling0525/flowrun/model"
)

const maxOutputWidth = 120

func (a *app) loadFlow(file, name string) (model.Flow, error) {
	switch {
	case file != "":
		return reactflow.Load(file)
	case name != "":
		return infra.NewFlowStore(a.cfg.FlowsDir()).Get(context.Background(), name)
	}
	return model.Flow{}, errors.New("--file or --name is required")
}

// runOnce executes a flow and prints each node's outcome. failed reports
// whether any node ended in error.
func (a *app) runOnce(file, name, envPath string, asJSON bool) (failed bool, err error) {
	flow, err := a.loadFlow(file, name)
	if err != nil {
		return false, err
	}
	vars, err := env.Load(envPath)
	if err != nil {
		return false, err
	}

	execID := uuid.NewString()
	fmt.Printf("▶️  Executing flow with %d nodes (exec %s)\n", len(flow.Nodes), execID)
	results, final := a.eng.Run(a.log.WithContext(context.Background()), execID, flow, vars)

	if asJSON {
		out, err := sonic.ConfigStd.MarshalIndent(map[string]any{"results": results, "variables": final}, "", "  ")
		if err != nil {
			return false, err
		}
		fmt.Println(string(out))
		return results.Failed(), nil
	}

	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		res := results[id]
		fmt.Printf("%s Node %s: %s\n", statusIcon(res.Status), id, res.Status)
		if res.Status == model.StatusError {
			fmt.Printf("   Error: %s\n", res.Error)
			continue
		}
		fmt.Printf("   Output: %s\n", truncate(render(res.Output), maxOutputWidth))
	}
	if results.Failed() {
		fmt.Fprintln(os.Stderr, "❌ Execution finished with errors")
		return true, nil
	}
	fmt.Println("✅ Execution complete")
	return false, nil
}

func (a *app) save(file, name string) error {
	flow, err := reactflow.Load(file)
	if err != nil {
		return err
	}
	if err := infra.NewFlowStore(a.cfg.FlowsDir()).Put(context.Background(), name, flow); err != nil {
		return err
	}
	fmt.Printf("💾 Saved flow %q\n", name)
	return nil
}

func (a *app) list() error {
	names, err := infra.NewFlowStore(a.cfg.FlowsDir()).List(context.Background())
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("No stored flows")
		return nil
	}
	for _, n := range names {
		fmt.Println(n)
	}
	return nil
}

func statusIcon(s model.Status) string {
	switch s {
	case model.StatusError:
		return "❌"
	case model.StatusSkipped:
		return "⏭️ "
	}
	return "✅"
}

func render(v any) string {
	out, err := sonic.ConfigStd.MarshalToString(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
