// Package collect turns submitted form values into the ordered model input
// list expected by the inference server. Each feature is read and coerced in
// its own goroutine; results land in indexed slots so the output order always
// matches the declared feature order.
package collect
