// Package agenda turns the flat habit list into the grouped, dated view shown
// on the home screen.
//
// A habit's description may carry two prefixed lines written by the add and
// edit forms, for example:
//
//	Date: 01.01.2030
//	Day: Tuesday
//	Drink a glass of water before breakfast
//
// ParseDescription and ComposeDescription are the only places that know this
// encoding. Everything else works on Details.
//
// Habits are grouped by their (day, date) pair. Groups are split into
// upcoming (dated today or later, or without a usable date) and past, and
// each half is ordered by date ascending and then by day name. Dates use the
// fixed dd.mm.yyyy layout; anything that does not match exactly is treated
// as "no date".
package agenda
