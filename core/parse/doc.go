// Package parse turns loosely formatted tool arguments into typed Go values.
//
// Models do not always send strict JSON: single quotes, unquoted keys, trailing
// commas and code fences are common, as is echoing the parameter schema back
// as {"type": ..., "value": ...} wrappers. [ParseStringAs] tries strict
// decoding first, then repairs the text with jsonrepair, then unwraps schema
// wrappers, before giving up.
package parse
