// Scribe is an HTTP gateway that fetches web pages and converts them
// to clean markdown or structured JSON.
//
// Clients request a conversion by appending the target URL to the
// service address:
//
//	curl http://localhost:8080/https://example.com
//	curl "http://localhost:8080/https://example.com?format=json"
//
// Usage:
//
//	# Start server with default configuration
//	scribe run
//
//	# Start with custom configuration file
//	scribe run --config /etc/scribe/config.yaml
//
//	# Check a configuration file without starting
//	scribe validate --config /etc/scribe/config.yaml
//
//	# Show version information
//	scribe version
package main

func main() {
	Execute()
}
