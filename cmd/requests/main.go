// Command requests issues GET, POST and PUT requests from the command line
// and prints the status code and response body. It can also serve the echo
// handler used by the end-to-end tests.
//
//	requests post http://127.0.0.1:8080/items -d name=gopher -H 'X-Token: abc'
//	requests serve --addr 127.0.0.1:8080
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
