package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meikuraledutech/flow"
	"github.com/meikuraledutech/flow/postgres"
)

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	// Wire up the postgres implementation behind the OutputStore interface.
	pg := postgres.New(pool)
	var store flow.OutputStore = pg

	// 1. Create tables
	if err := pg.CreateSchema(ctx); err != nil {
		log.Fatalf("schema: %v", err)
	}
	fmt.Println("schema created")

	// ── Record node outputs for a run ─────────────────────────────────
	runID := uuid.NewString()
	outputs := []flow.Node{
		{ID: "drive-trigger", OutputData: map[string]any{"file": map[string]any{"name": "report.pdf", "size": 48213}}},
		{ID: "classify", OutputData: map[string]any{"status": "success", "count": 15, "message": "Hello world"}},
	}
	for i := range outputs {
		if err := store.SaveOutput(ctx, runID, &outputs[i]); err != nil {
			log.Fatalf("save output: %v", err)
		}
	}
	fmt.Printf("\nrun %s recorded %d outputs\n", runID, len(outputs))

	nodes, err := store.ListOutputs(ctx, runID)
	if err != nil {
		log.Fatalf("list outputs: %v", err)
	}
	printJSON(nodes)

	// ── Resolve a message template ────────────────────────────────────
	msg := flow.ResolveVariables("New file {{drive-trigger.file}} classified as {{classify.status}} ({{slack.ts}})", nodes)
	fmt.Println("\nresolved message:")
	fmt.Println(msg)

	// ── Pick the next branch ──────────────────────────────────────────
	edges := []flow.Edge{
		{ID: "notify", FromNodeID: "classify", ToNodeID: "slack", When: &flow.ConditionSet{
			RootLogic: flow.LogicAnd,
			Conditions: []flow.Condition{
				{LeftOperand: "{{classify.status}}", Operator: flow.OpEquals, RightOperand: "success"},
				{LeftOperand: "{{classify.count}}", Operator: flow.OpGreaterThan, RightOperand: "10"},
			},
		}},
		{ID: "alert", FromNodeID: "classify", ToNodeID: "gmail", When: &flow.ConditionSet{
			RootLogic: flow.LogicOr,
			Conditions: []flow.Condition{
				{LeftOperand: "{{classify.status}}", Operator: flow.OpEquals, RightOperand: "failure"},
				{LeftOperand: "{{classify.message}}", Operator: flow.OpIsEmpty},
			},
		}},
		{ID: "archive", FromNodeID: "classify", ToNodeID: "notion"},
	}
	if err := flow.ValidateAcyclic(edges); err != nil {
		log.Fatalf("edges: %v", err)
	}

	fmt.Println("\nselected branches:")
	printJSON(flow.SelectEdges(edges, "classify", nodes))

	// ── Cleanup ───────────────────────────────────────────────────────
	if err := store.DeleteRun(ctx, runID); err != nil {
		log.Fatalf("delete: %v", err)
	}
	fmt.Println("\nrun deleted")
}

func printJSON(v any) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}
