// Command expensectl runs maintenance tasks against the expense tracker
// database: schema migration, account creation and sample data.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
