// Command backstack validates route tables, replays navigation scripts and
// serves sessions over HTTP.
package main

func main() {
	Execute()
}
