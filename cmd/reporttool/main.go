// Command reporttool prints the report aggregation and journal balance
// check for a tilikirja database.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/shopspring/decimal"

	"tilikirja/internal/database"
	"tilikirja/internal/report"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: reporttool <path-to-db>")
		os.Exit(1)
	}

	// database.Open creates a fresh db for a missing path; a report
	// over a typo'd argument should fail, not print an empty report.
	if _, err := os.Stat(os.Args[1]); err != nil {
		fmt.Printf("Error opening database: %v\n", err)
		os.Exit(1)
	}

	db, err := database.Open(os.Args[1])
	if err != nil {
		fmt.Printf("Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	entries, err := db.ListJournalEntries()
	if err != nil {
		fmt.Printf("Error reading journal: %v\n", err)
		os.Exit(1)
	}
	accounts, err := db.ListAccounts()
	if err != nil {
		fmt.Printf("Error reading accounts: %v\n", err)
		os.Exit(1)
	}

	rep := report.Aggregate(entries, accounts, nil)

	fmt.Printf("Journal entries: %d, accounts: %d\n\n", len(entries), len(accounts))

	fmt.Println("Income statement:")
	fmt.Println("-----------------")
	printBucket(rep.Income)

	fmt.Println("\nBalance sheet:")
	fmt.Println("--------------")
	printBucket(rep.Balance)

	check := report.CheckBalance(entries)
	fmt.Println("\nBalance check:")
	fmt.Println("--------------")
	fmt.Printf("  Total Debits:  %12s\n", check.TotalDebit.StringFixed(2))
	fmt.Printf("  Total Credits: %12s\n", check.TotalCredit.StringFixed(2))
	if check.Balanced() {
		fmt.Println("  Journal balances!")
	} else {
		fmt.Printf("  DIFFERENCE:    %12s (journal does not balance)\n", check.Difference().StringFixed(2))
	}
}

func printBucket(totals map[string]decimal.Decimal) {
	if len(totals) == 0 {
		fmt.Println("  (no postings)")
		return
	}
	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %-40s %12s\n", k, totals[k].StringFixed(2))
	}
}
