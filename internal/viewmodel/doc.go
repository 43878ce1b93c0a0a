// Package viewmodel holds the client-side task list state.
//
// State changes only through Reduce, a pure function of the previous state
// and an Event. Counts and the visible list are derived on read. Board
// drives a client.Client and reduces its results into State.
package viewmodel
