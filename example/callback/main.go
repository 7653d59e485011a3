package main

import (
	"context"
	"fmt"
	"log"

	"github.com/ghalamif/AlyvixCheck/pkg/alyvixcheck"
)

func main() {
	cfg, err := alyvixcheck.LoadConfig("../../data/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	callback := func(r alyvixcheck.Report) error {
		fmt.Printf("%s state=%d duration_ms=%v transactions=%d\n",
			r.TestCase,
			r.Summary.TestCaseState,
			derefOrEmpty(r.Summary.TestCaseDurationMS),
			len(r.Transactions),
		)
		for _, tx := range r.Transactions {
			fmt.Printf("  %s state=%d performance_ms=%v\n",
				tx.TransactionAlias, tx.TransactionState, derefOrEmpty(tx.TransactionPerformanceMS))
		}
		return nil
	}

	agent, err := alyvixcheck.NewAgent(cfg, alyvixcheck.WithSinks(alyvixcheck.NewCallbackSink("stdout", callback)))
	if err != nil {
		log.Fatalf("new agent: %v", err)
	}
	defer agent.Close()

	if err := agent.Run(context.Background()); err != nil {
		log.Printf("check finished with errors: %v", err)
	}
}

func derefOrEmpty(v *int64) any {
	if v == nil {
		return ""
	}
	return *v
}
