// etlwatch - ETL job monitor
//
// etlwatch reads the ETL job history from the analytics backend and shows
// every run with readable timestamps and elapsed times.
package main

import (
	"os"

	"github.com/ccollicutt/etlwatch/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
