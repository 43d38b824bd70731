// Package site builds the static models site.
//
// A build runs a fixed sequence of named stages (prepare_output, scan_models,
// parse_models, render_pages, copy_assets) against a staging directory that is
// promoted over the output directory only when every stage succeeded. Stage
// timings and outcomes are collected in a BuildReport.
package site
