// Command tvdip denoises piecewise-constant signals with total variation
// regularization.
//
// Usage:
//
//	tvdip solve [flags]
//	tvdip lambdamax [flags]
//	tvdip generate [flags]
//
// Examples:
//
//	tvdip generate --kind steps --levels 0,1,0 --lengths 100,50,100 --sigma 0.1 > y.txt
//	tvdip solve --format column --input y.txt --lambdas 0.5,0.1 --analyze
//	tvdip solve --config tvdip.yaml --output json --signals < traces.txt
//	tvdip lambdamax --input traces.json --format json
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "tvdip: %v\n", err)
		stop()
		os.Exit(1)
	}
}
