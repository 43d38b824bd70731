// Package metrics provides build metrics for modelsite.
//
// Components receive a Recorder and never check for nil: NoopRecorder is the
// default, and PrometheusRecorder is swapped in when metrics.textfile is set.
// Because a build is a one-shot process there is no scrape endpoint; the
// registry is written once per build in the node_exporter textfile format.
package metrics
