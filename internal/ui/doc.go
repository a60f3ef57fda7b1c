// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for playlist conversion:
//  1. [ConvertView] : Watch per-query resolution progress in real time
//  2. [ReviewView] : Browse the per-query outcomes before publishing
//  3. [ConfirmView] : Confirm playlist creation on YouTube
//  4. [PublishView] : Monitor playlist creation and video inserts
//  5. [ResultView] : Display the created playlist URL and any failures
//
// The [Model] implements bubbletea's standard Init/Update/View pattern.
// Progress updates flow through a channel from the ConvertEngine, providing
// non-blocking status reporting during conversion and publication.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
