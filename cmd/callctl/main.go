// Command callctl mints credentials and inspects a running video call gateway.
package main

func main() {
	Execute()
}
