// Package alarm turns dashboard snapshots into an in-memory list of active
// alarms. A widget alarms when its reading sits above 75% (warning) or 90%
// (critical) of its display range and clears when it drops back. Alarms
// can be acknowledged; nothing is persisted.
package alarm
