// Package inference talks to the inference server: single-record JSON
// inference at POST /infer/ and CSV batch inference at POST /infer-csv/.
// Failures are reported as *NetworkError (transport or decoding problems)
// or *ServerError (non-2xx responses carrying the server's detail message).
package inference
