package main

import (
	"context"
	"fmt"
)

// recheck re-runs the completion rule over every pending certificate.
func (cli *commandLine) recheck() error {
	n, err := cli.courseSvc.RecheckPending(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("%d certificate(s) completed\n", n)
	return nil
}
