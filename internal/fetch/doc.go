// Package fetch downloads the remote registries consumed by the audit.
//
// A Client performs a single GET per call and returns the whole body with
// its status code and a SHA3-256 digest. Requests carry a browser-like
// User-Agent and an Accept header preferring CSV; extra headers, such as
// an API key, are injected by a wrapping RoundTripper so that redirects
// carry them too.
//
// Connections can be routed through a SOCKS5 proxy:
//
//	client, err := fetch.NewClient(
//	    fetch.WithProxy("127.0.0.1:1080"),
//	    fetch.WithTimeout(2*time.Minute),
//	)
//	if err != nil {
//	    return err
//	}
//	dl, err := client.Get(ctx, "https://example.gov/data.csv")
//
// There are no retries. A non-200 response is reported as *StatusError.
package fetch
