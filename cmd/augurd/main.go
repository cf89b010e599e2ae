// Command augurd runs the Bitcoin mempool fee-estimation service: a
// periodic collector backed by a Bitcoin Core node, a snapshot store,
// and an HTTP surface over the results.
package main

func main() {
	Execute()
}
