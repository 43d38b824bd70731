// Package catalog discovers NetLogo models on disk and arranges them into the
// folder tree shown on the index page.
//
// Scanning is read-only. Every .nlogox file below the models root becomes a
// ModelEntry; a sibling .png with the same stem becomes its screenshot. Every
// non-hidden directory is recorded so the FolderNode tree mirrors the source
// structure, empty folders included.
package catalog
