// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a two-view workflow for browsing recommendations:
//  1. [BrowseView] : Navigate a user's active recommendations and act on them
//  2. [GenerateView] : Monitor real-time progress while a fresh batch is generated
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the recommendation engine,
// providing non-blocking status reporting during generation.
//
// Keyboard navigation uses vim-style bindings (j/k, l, d, g, r, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
