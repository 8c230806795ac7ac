// Command copilot-metrics fetches GitHub Copilot usage metrics for an
// organization and writes them as timestamped report files.
package main

func main() {
	Execute()
}
