// Package dashboard implements the plant monitoring TUI.
//
// Widgets from the catalog are laid out group by group as bordered panels.
// Each widget type has its own renderer that receives the current value,
// the rolling history and the display range from sim.Dashboard, and
// nothing else.
//
// # Message Flow
//
//  1. tickMsg fires every interval and advances the dashboard by one tick
//  2. the grid is re-rendered into a scrollable viewport
//  3. enter opens a focused view backed by sim.Focus
//  4. the focused view runs its own sim clock while its window is LIVE and
//     signals each new point through a channel; focusTickMsg redraws
//  5. every tick is checked against the alarm board; a toggles the panel
//
// Switching the focused view away from LIVE, closing it or quitting stops
// its clock handle, so no timer outlives the view.
package dashboard
